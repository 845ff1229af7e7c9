package model

import (
	"time"
)

// DetectionEvent is a persisted disease sighting. Crop and Disease hold the
// canonical English labels regardless of the language the caller asked for.
type DetectionEvent struct {
	ID         int64     `db:"id" json:"id"`
	Crop       string    `db:"crop" json:"crop"`
	Disease    string    `db:"disease" json:"disease"`
	Confidence float64   `db:"confidence" json:"confidence"`
	Latitude   *float64  `db:"latitude" json:"latitude"`
	Longitude  *float64  `db:"longitude" json:"longitude"`
	ImageKey   *string   `db:"image_key" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Coordinates implements geo.Located.
func (e DetectionEvent) Coordinates() (*float64, *float64) {
	return e.Latitude, e.Longitude
}

// DetectImageResponse is returned by POST /api/detect-image.
type DetectImageResponse struct {
	Crop       string   `json:"crop"`
	Disease    string   `json:"disease"`
	Confidence float64  `json:"confidence"`
	Remedies   []string `json:"remedies"`
	Language   string   `json:"language"`
}

// NearbyAlert is one entry of GET /api/nearby-alerts.
type NearbyAlert struct {
	Disease    string   `json:"disease"`
	DistanceKM *float64 `json:"distance_km"`
	Timestamp  *string  `json:"timestamp"`
}

// NearbyAlertsResponse wraps the alert list.
type NearbyAlertsResponse struct {
	Alerts []NearbyAlert `json:"alerts"`
}
