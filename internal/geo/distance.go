// Package geo holds the great-circle arithmetic used for nearby alerts and
// store ranking.
package geo

import "math"

// EarthRadiusKM is the mean Earth radius used by HaversineKM.
const EarthRadiusKM = 6371.0

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64
	Lng float64
}

// HaversineKM returns the great-circle distance in kilometers between two
// coordinates given in degrees. Malformed input yields NaN rather than an
// error.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := radians(lat2 - lat1)
	dLon := radians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(radians(lat1))*math.Cos(radians(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKM * c
}

// DistanceKM is HaversineKM between two points.
func (p Point) DistanceKM(q Point) float64 {
	return HaversineKM(p.Lat, p.Lng, q.Lat, q.Lng)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
