package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute)

	c.Set("a", 41)
	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 41, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := New(20 * time.Millisecond)

	c.Set("a", "value")
	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok, "expired entries read as absent")
	assert.Zero(t, c.Len(), "expired entry is removed on access")
}

func TestCacheOverwrite(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("a", 2)

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, got)
}

func TestCachePurge(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	assert.Zero(t, c.Len())
}

func TestKeyStability(t *testing.T) {
	k1 := Key("monthly", 2025, "Running")
	k2 := Key("monthly", 2025, "Running")
	k3 := Key("monthly", 2025, "Cycling")
	k4 := Key("daily", 2025, "Running")

	assert.Equal(t, k1, k2, "same parameters produce the same key")
	assert.NotEqual(t, k1, k3)
	assert.NotEqual(t, k1, k4, "the name namespaces the key")
}
