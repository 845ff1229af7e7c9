package model

import (
	"time"
)

// DeviceUser is an anonymous registered device that may receive nearby
// disease alerts. DeviceToken is unique when present.
type DeviceUser struct {
	ID                   int64     `db:"id" json:"id"`
	Latitude             float64   `db:"latitude" json:"latitude"`
	Longitude            float64   `db:"longitude" json:"longitude"`
	DeviceToken          *string   `db:"device_token" json:"-"`
	NotificationsEnabled bool      `db:"notifications_enabled" json:"notifications_enabled"`
	Language             *string   `db:"language" json:"language"`
	CreatedAt            time.Time `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}

// Coordinates implements geo.Located.
func (u DeviceUser) Coordinates() (*float64, *float64) {
	return &u.Latitude, &u.Longitude
}

// HasToken reports whether the device can be reached by push.
func (u DeviceUser) HasToken() bool {
	return u.DeviceToken != nil && *u.DeviceToken != ""
}

// RegisterDeviceRequest is the request body for POST /api/register-device.
// NotificationsEnabled defaults to true when omitted.
type RegisterDeviceRequest struct {
	DeviceToken          string  `json:"device_token"`
	Latitude             float64 `json:"latitude"`
	Longitude            float64 `json:"longitude"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
	Language             *string `json:"language"`
}

// RegisterDeviceResponse acknowledges a registration.
type RegisterDeviceResponse struct {
	OK bool `json:"ok"`
}
