package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndGet(t *testing.T) {
	c := New[string, string](time.Hour)

	c.Store("key", "first")
	c.Store("key", "second")

	value, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, "second", value, "a second store must overwrite the first")
	assert.Equal(t, 1, c.Len())
}

func TestGetMissing(t *testing.T) {
	c := New[string, int](time.Hour)

	_, ok := c.Get("missing")
	assert.False(t, ok)
	assert.False(t, c.Contains("missing"))
}

func TestRemove(t *testing.T) {
	c := New[string, int](time.Hour)
	c.Store("key", 42)

	value, ok := c.Remove("key")
	require.True(t, ok)
	assert.Equal(t, 42, value)
	assert.False(t, c.Contains("key"))

	_, ok = c.Remove("key")
	assert.False(t, ok)
}

func TestGetOrElseComputesOnMiss(t *testing.T) {
	c := New[string, string](time.Hour)

	calls := 0
	value, err := c.GetOrElse("key", func() (string, error) {
		calls++
		return "computed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "computed", value)

	// A second call should be served from the cache.
	value, err = c.GetOrElse("key", func() (string, error) {
		calls++
		return "recomputed", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "computed", value)
	assert.Equal(t, 1, calls)
}

func TestGetOrElsePassesErrorThrough(t *testing.T) {
	c := New[string, string](time.Hour)

	computeErr := errors.New("fetch failed")
	_, err := c.GetOrElse("key", func() (string, error) {
		return "", computeErr
	})
	assert.ErrorIs(t, err, computeErr)
	assert.False(t, c.Contains("key"), "failed computes must not be stored")
}

func TestPurgeExpired(t *testing.T) {
	c := New[string, int](time.Millisecond)

	c.Store("old", 1)
	time.Sleep(5 * time.Millisecond)
	c.Store("fresh", 2)

	c.PurgeExpired()

	assert.False(t, c.Contains("old"))
	assert.True(t, c.Contains("fresh"), "purge must never remove a freshly stored entry")
}

func TestExpiredEntryStillReturnedBeforePurge(t *testing.T) {
	c := New[string, int](time.Millisecond)

	c.Store("key", 1)
	time.Sleep(5 * time.Millisecond)

	// Expiry is batch, not per-access: until the purge runs the entry is
	// still served.
	value, ok := c.Get("key")
	require.True(t, ok)
	assert.Equal(t, 1, value)

	c.PurgeExpired()
	_, ok = c.Get("key")
	assert.False(t, ok)
}
