package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEviction(t *testing.T) {
	var evicted []string
	c := New(2, func(key string, _ interface{}) { evicted = append(evicted, key) })

	c.Set("a", 1)
	c.Set("b", 2)
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)
	assert.Equal(t, []string{"b"}, evicted)
	assert.Equal(t, 2, c.Len())

	_, ok = c.Get("b")
	assert.False(t, ok)

	stats := c.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, int64(1), stats.Evictions)
	assert.Equal(t, 50.0, stats.HitRate())
}

func TestLRUReplace(t *testing.T) {
	var evicted []interface{}
	c := New(4, func(_ string, v interface{}) { evicted = append(evicted, v) })

	c.Set("a", 1)
	c.Set("a", 1)
	assert.Empty(t, evicted)

	c.Set("a", 2)
	assert.Equal(t, []interface{}{1}, evicted)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestLRUInvalidatePrefix(t *testing.T) {
	var evicted []string
	c := New(8, func(key string, _ interface{}) { evicted = append(evicted, key) })

	c.Set(Key("guild", "INSERT INTO guild VALUES (?);"), 1)
	c.Set(Key("guild", "UPDATE guild SET a = ?;"), 2)
	c.Set(Key("member", "INSERT INTO member VALUES (?);"), 3)

	c.InvalidatePrefix("guild:")
	assert.Len(t, evicted, 2)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Len(t, evicted, 3)
	assert.Equal(t, 0, c.Len())
}

func TestKey(t *testing.T) {
	k1 := Key("t", "SELECT 1;")
	k2 := Key("t", "SELECT 2;")
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, Key("t", "SELECT 1;"))
	assert.Contains(t, k1, "t:")
}
