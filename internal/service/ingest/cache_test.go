package ingest

import (
	"testing"

	"github.com/cmlabs-hris/hris-dashboard-go/internal/domain/event"
	"github.com/stretchr/testify/assert"
)

func TestCache_PutGetInvalidate(t *testing.T) {
	cache := NewCache(2)

	cache.Put("a", []event.Event{{RUT: "1-9"}})
	cache.Put("b", []event.Event{{RUT: "2-7"}})
	assert.Equal(t, 2, cache.Len())

	got, ok := cache.Get("a")
	assert.True(t, ok)
	assert.Equal(t, "1-9", got[0].RUT)

	cache.Invalidate("a")
	_, ok = cache.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len())

	cache.Invalidate("")
	assert.Equal(t, 0, cache.Len())
}

func TestCache_EvictsOldest(t *testing.T) {
	cache := NewCache(2)
	cache.Put("a", nil)
	cache.Put("b", nil)
	cache.Put("a", nil) // refresh keeps position
	cache.Put("c", nil)

	_, ok := cache.Get("a")
	assert.False(t, ok)
	_, ok = cache.Get("b")
	assert.True(t, ok)
	_, ok = cache.Get("c")
	assert.True(t, ok)
}
