package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arogyakrishi/internal/model"
)

func TestStoreCache_SetGet(t *testing.T) {
	c := NewStoreCache(time.Minute)
	d := 1.5
	stores := []model.PesticideStore{{Name: "Kisan Agro", DistanceKM: &d}}

	_, ok := c.Get("k")
	assert.False(t, ok)

	c.Set("k", stores)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, stores, got)

	// Callers may reorder what they get back without corrupting the entry.
	got[0].Name = "changed"
	again, _ := c.Get("k")
	assert.Equal(t, "Kisan Agro", again[0].Name)
	assert.Equal(t, 1, c.Len())
}

func TestStoreCache_Expires(t *testing.T) {
	c := NewStoreCache(20 * time.Millisecond)
	c.Set("k", []model.PesticideStore{{Name: "x"}})

	time.Sleep(40 * time.Millisecond)

	_, ok := c.Get("k")
	assert.False(t, ok)
}
