package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheGetSet(t *testing.T) {
	c := New[int](time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("answer", 42)
	v, ok := c.Get("answer")
	assert.True(t, ok)
	assert.Equal(t, 42, v)
}

func TestCacheExpiry(t *testing.T) {
	c := New[string](10 * time.Millisecond)

	c.Set("short", "lived")
	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
}

func TestCacheInvalidate(t *testing.T) {
	c := New[string](time.Minute)

	c.Set("keep", "a")
	c.Set("drop", "b")

	c.Invalidate("drop")
	c.Invalidate("never-existed")

	_, ok := c.Get("drop")
	assert.False(t, ok)
	_, ok = c.Get("keep")
	assert.True(t, ok)
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c := New[string](time.Minute)

	c.Set(FeedKey("user-a", []string{"user-b"}), "feed1")
	c.Set(FeedKey("user-a", []string{"user-b", "user-c"}), "feed2")
	c.Set(FeedKey("user-z", []string{"user-b"}), "other")

	c.InvalidatePrefix(FeedKeyPrefix("user-a"))

	_, ok := c.Get(FeedKey("user-a", []string{"user-b"}))
	assert.False(t, ok)
	_, ok = c.Get(FeedKey("user-a", []string{"user-b", "user-c"}))
	assert.False(t, ok)
	_, ok = c.Get(FeedKey("user-z", []string{"user-b"}))
	assert.True(t, ok)
}

func TestFeedKeyDeterministic(t *testing.T) {
	// Follow-set order must not matter.
	a := FeedKey("viewer", []string{"u1", "u2", "u3"})
	b := FeedKey("viewer", []string{"u3", "u1", "u2"})
	assert.Equal(t, a, b)

	// A different follow set is a different key.
	c := FeedKey("viewer", []string{"u1", "u2"})
	assert.NotEqual(t, a, c)
}
