package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/rowmodel/pkg/record"
)

func TestCache_Construct_Identity(t *testing.T) {
	cache := NewCache("name")

	first, err := cache.Construct(record.Record{"name": "first", "value": "one"})
	require.NoError(t, err)

	// Same key, different non-key attributes: same instance, and the
	// original attributes win at construction time.
	again, err := cache.Construct(record.Record{"name": "first", "value": "stale"})
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, "one", again.GetString("value"))

	other, err := cache.Construct(record.Record{"name": "second", "value": "two"})
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_Construct_CompositeKey(t *testing.T) {
	cache := NewCache("x", "y")

	a, err := cache.Construct(record.Record{"x": int64(1), "y": int64(2)})
	require.NoError(t, err)
	b, err := cache.Construct(record.Record{"x": int64(1), "y": int64(2)})
	require.NoError(t, err)
	c, err := cache.Construct(record.Record{"x": int64(2), "y": int64(1)})
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
}

func TestCache_Construct_KeyTypeMatters(t *testing.T) {
	cache := NewCache("id")

	byInt, err := cache.Construct(record.Record{"id": int64(1)})
	require.NoError(t, err)
	byString, err := cache.Construct(record.Record{"id": "1"})
	require.NoError(t, err)

	assert.NotSame(t, byInt, byString)
}

func TestCache_Construct_MissingKey(t *testing.T) {
	cache := NewCache("name")

	_, err := cache.Construct(record.Record{"value": "one"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingKey)
	assert.Contains(t, err.Error(), `"name"`)
	assert.Equal(t, 0, cache.Len(), "a failed construction must not cache anything")
}

func TestCache_Construct_NoPrimaryKey(t *testing.T) {
	cache := NewCache()

	a, err := cache.Construct(record.Record{"schema": "public", "table": "options"})
	require.NoError(t, err)
	b, err := cache.Construct(record.Record{"schema": "public", "table": "options"})
	require.NoError(t, err)

	assert.NotSame(t, a, b, "keyless constructions are always fresh")
	assert.Equal(t, 0, cache.Len())
}

func TestObject_Update_SharedVisibility(t *testing.T) {
	cache := NewCache("name")

	held, err := cache.Construct(record.Record{"name": "first", "value": "one"})
	require.NoError(t, err)
	other, err := cache.Construct(record.Record{"name": "first"})
	require.NoError(t, err)

	held.Update(record.Record{"value": "The One", "seen": int64(3)})

	// Every previously obtained reference observes the change.
	assert.Equal(t, "The One", other.GetString("value"))
	assert.Equal(t, int64(3), other.GetInt64("seen"))

	// The key is unchanged: a re-fetch still resolves to the same entry.
	refetched, err := cache.Construct(record.Record{"name": "first", "value": "ignored"})
	require.NoError(t, err)
	assert.Same(t, held, refetched)
	assert.Equal(t, "The One", refetched.GetString("value"))
}

func TestObject_AttrsIsACopy(t *testing.T) {
	obj := New(record.Record{"name": "first"})

	attrs := obj.Attrs()
	attrs["name"] = "tampered"

	assert.Equal(t, "first", obj.GetString("name"))
	assert.Equal(t, 1, obj.Len())
}

func TestObject_SeedNotAliased(t *testing.T) {
	seed := record.Record{"name": "first"}
	obj := New(seed)

	seed["name"] = "mutated"
	assert.Equal(t, "first", obj.GetString("name"))
}

func TestCache_ConcurrentConstruct(t *testing.T) {
	cache := NewCache("name")

	const workers = 16
	results := make([]*Object, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			obj, err := cache.Construct(record.Record{"name": "first", "worker": i})
			if err == nil {
				results[i] = obj
			}
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		require.NotNil(t, results[i])
		assert.Same(t, results[0], results[i])
	}
	assert.Equal(t, 1, cache.Len())
}
