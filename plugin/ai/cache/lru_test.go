package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUCacheBasic(t *testing.T) {
	c := NewLRUCache(4, time.Minute)

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestLRUCacheEviction(t *testing.T) {
	c := NewLRUCache(3, time.Minute)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("k%d", i), i, 0)
	}

	// Touch k0 so k1 becomes the eviction candidate.
	_, ok := c.Get("k0")
	assert.True(t, ok)

	c.Set("k3", 3, 0)

	_, ok = c.Get("k1")
	assert.False(t, ok, "least recently used entry should be evicted")
	_, ok = c.Get("k0")
	assert.True(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestLRUCacheExpiry(t *testing.T) {
	c := NewLRUCache(4, time.Minute)

	c.Set("short", "v", 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok, "expired entry must not be returned")
}

func TestLRUCacheUpdateRefreshesTTL(t *testing.T) {
	c := NewLRUCache(4, time.Minute)

	c.Set("k", "v1", 10*time.Millisecond)
	c.Set("k", "v2", time.Minute)
	time.Sleep(20 * time.Millisecond)

	v, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v2", v)
}
