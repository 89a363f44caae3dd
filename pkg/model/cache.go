package model

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/rowmodel/pkg/record"
)

// ErrMissingKey is returned when the attributes passed to Construct omit a
// declared primary-key attribute.
var ErrMissingKey = errors.New("missing primary key attribute")

// Cache is an identity map for one model type, keyed by the model's primary
// key attributes in declared order. Entries are never evicted: identity must
// hold for the process lifetime, so high key cardinality in a long-running
// process means unbounded growth.
type Cache struct {
	primaryKey []string

	mu      sync.Mutex
	entries map[string]*Object
}

// NewCache creates an identity cache keyed by the given attribute names.
// With no names, the cache is pass-through: Construct always allocates.
func NewCache(primaryKey ...string) *Cache {
	return &Cache{
		primaryKey: primaryKey,
		entries:    make(map[string]*Object),
	}
}

// PrimaryKey returns the declared key attribute names in order.
func (c *Cache) PrimaryKey() []string {
	return append([]string(nil), c.primaryKey...)
}

// Construct returns the canonical instance for the primary-key values in
// attrs, allocating one seeded with attrs on first sight. A cache hit
// returns the existing instance as-is: construction seeds state only the
// first time, and Update is the only way to mutate a cached instance later.
// Without a primary key, every call allocates a fresh instance.
func (c *Cache) Construct(attrs record.Record) (*Object, error) {
	if len(c.primaryKey) == 0 {
		return New(attrs), nil
	}

	key, err := c.keyFor(attrs)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if obj, ok := c.entries[key]; ok {
		return obj, nil
	}

	obj := New(attrs)
	c.entries[key] = obj
	return obj, nil
}

// Len returns the number of cached instances.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// keyFor projects attrs onto the primary-key attributes, in declared order,
// and encodes the values into a collision-safe map key. The encoding carries
// the dynamic type so int64(1) and "1" never map to the same entry.
func (c *Cache) keyFor(attrs record.Record) (string, error) {
	var b strings.Builder
	for _, name := range c.primaryKey {
		value, ok := attrs[name]
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrMissingKey, name)
		}
		fmt.Fprintf(&b, "%T\x1f%v\x1e", value, value)
	}
	return b.String(), nil
}
