// Package model provides the identity-cached, mutable instances that query
// results are mapped onto. A Cache is an explicit, caller-owned identity map:
// for a declared primary key, every construction with the same key values
// yields the same *Object, so an in-place Update is visible through every
// reference to it. A cache with no primary key always produces fresh
// instances.
package model

import (
	"sync"
	"time"

	"github.com/leapstack-labs/rowmodel/pkg/record"
)

// Object holds an arbitrary set of named attributes. The attribute set is
// not schema-bound; any fetch or update may introduce new names.
type Object struct {
	mu    sync.RWMutex
	attrs record.Record
}

// New allocates a fresh, non-cached instance seeded with attrs.
func New(attrs record.Record) *Object {
	return &Object{attrs: attrs.Clone()}
}

// Update merges attrs into the instance in place: new names are added,
// existing names overwritten. Identity is preserved, so every holder of a
// reference to this instance observes the change.
func (o *Object) Update(attrs record.Record) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attrs == nil {
		o.attrs = record.Record{}
	}
	o.attrs.Merge(attrs)
}

// Get returns an attribute value and whether it is present.
func (o *Object) Get(name string) (any, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.attrs[name]
	return v, ok
}

// GetString returns an attribute as a string.
func (o *Object) GetString(name string) string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.attrs.GetString(name)
}

// GetInt64 returns an attribute as an int64.
func (o *Object) GetInt64(name string) int64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.attrs.GetInt64(name)
}

// GetTime returns an attribute as a time.Time.
func (o *Object) GetTime(name string) time.Time {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.attrs.GetTime(name)
}

// Attrs returns a copy of the attribute set.
func (o *Object) Attrs() record.Record {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.attrs.Clone()
}

// Len returns the number of attributes.
func (o *Object) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.attrs)
}
