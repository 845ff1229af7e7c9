package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type record struct {
	name string
	lat  *float64
	lng  *float64
}

func (r record) Coordinates() (*float64, *float64) { return r.lat, r.lng }

func ptr(v float64) *float64 { return &v }

func names(rs []record) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.name)
	}
	return out
}

func TestBoundingBox(t *testing.T) {
	box := BoundingBox(Point{Lat: 0, Lng: 0}, 111)
	assert.InDelta(t, -1, box.MinLat, 1e-9)
	assert.InDelta(t, 1, box.MaxLat, 1e-9)
	assert.InDelta(t, -1, box.MinLng, 1e-9)
	assert.InDelta(t, 1, box.MaxLng, 1e-9)

	// Longitude span widens away from the equator.
	box = BoundingBox(Point{Lat: 60, Lng: 10}, 111)
	assert.InDelta(t, 2, box.MaxLng-10, 1e-9)
	assert.True(t, box.Contains(60, 11.9))
	assert.False(t, box.Contains(61.5, 10))
}

func TestFilterWithinRadius_ExcludesMissingCoordinates(t *testing.T) {
	center := Point{Lat: 17.385, Lng: 78.4867}
	records := []record{
		{name: "no-lat", lat: nil, lng: ptr(78.4867)},
		{name: "no-lng", lat: ptr(17.385), lng: nil},
		{name: "neither"},
		{name: "here", lat: ptr(17.385), lng: ptr(78.4867)},
	}

	got := FilterWithinRadius(center, 10000, records)

	assert.Equal(t, []string{"here"}, names(got))
}

func TestFilterWithinRadius_KeepsOrderAndRadius(t *testing.T) {
	center := Point{Lat: 17.385, Lng: 78.4867}
	records := []record{
		{name: "far", lat: ptr(17.6), lng: ptr(78.4867)},    // ~24 km north
		{name: "near", lat: ptr(17.40), lng: ptr(78.49)},    // ~1.7 km
		{name: "edge", lat: ptr(17.4649), lng: ptr(78.4867)}, // ~8.9 km north
	}

	got := FilterWithinRadius(center, 10, records)

	assert.Equal(t, []string{"near", "edge"}, names(got))
}

func TestFilterWithinRadius_DropsBoxCorners(t *testing.T) {
	center := Point{Lat: 0, Lng: 0}
	// Inside the 10 km box but ~12.7 km away along the diagonal.
	corner := record{name: "corner", lat: ptr(0.08), lng: ptr(0.08)}

	assert.True(t, BoundingBox(center, 10).Contains(0.08, 0.08))
	assert.Empty(t, FilterWithinRadius(center, 10, []record{corner}))
}
