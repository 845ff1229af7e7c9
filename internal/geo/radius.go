package geo

import "math"

// kmPerDegree approximates the length of one degree of latitude.
const kmPerDegree = 111.0

// Located is anything carrying optional coordinates.
type Located interface {
	Coordinates() (lat, lng *float64)
}

// Box is an inclusive latitude/longitude rectangle.
type Box struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// BoundingBox returns the rectangle that approximates a circle of radiusKM
// around center. The longitude span widens with latitude and is not clamped,
// so it degrades near the poles.
func BoundingBox(center Point, radiusKM float64) Box {
	latDelta := radiusKM / kmPerDegree
	lngDelta := radiusKM / (kmPerDegree * math.Cos(radians(center.Lat)))
	if lngDelta < 0 {
		lngDelta = -lngDelta
	}

	return Box{
		MinLat: center.Lat - latDelta,
		MaxLat: center.Lat + latDelta,
		MinLng: center.Lng - lngDelta,
		MaxLng: center.Lng + lngDelta,
	}
}

// Contains reports whether (lat, lng) falls inside the box, edges included.
func (b Box) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// FilterWithinRadius keeps records whose coordinates lie within radiusKM of
// center, preserving input order. Records missing either coordinate are
// always dropped. The bounding box is applied first and the haversine
// distance decides the edge cases the box lets through.
func FilterWithinRadius[T Located](center Point, radiusKM float64, records []T) []T {
	box := BoundingBox(center, radiusKM)

	out := make([]T, 0, len(records))
	for _, r := range records {
		lat, lng := r.Coordinates()
		if lat == nil || lng == nil {
			continue
		}
		if !box.Contains(*lat, *lng) {
			continue
		}
		if HaversineKM(center.Lat, center.Lng, *lat, *lng) > radiusKM {
			continue
		}
		out = append(out, r)
	}
	return out
}
