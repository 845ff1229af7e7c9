package model

import "errors"

// Error codes for HTTP responses
const (
	CodeUnsupportedLanguage    = "UNSUPPORTED_LANGUAGE"
	CodeInvalidCoordinates     = "INVALID_COORDINATES"
	CodePersistenceUnavailable = "PERSISTENCE_UNAVAILABLE"
)

var (
	// ErrUnsupportedLanguage is returned for language codes outside the supported set.
	ErrUnsupportedLanguage = errors.New("unsupported language")

	// ErrInvalidCoordinates is returned for latitude/longitude outside valid ranges.
	ErrInvalidCoordinates = errors.New("invalid coordinates")

	// ErrDeviceTokenRequired is returned when registering without a token.
	ErrDeviceTokenRequired = errors.New("device_token is required")

	// ErrEmptyMessage is returned for blank chat messages.
	ErrEmptyMessage = errors.New("message is required")

	// ErrPersistenceUnavailable is returned by operations that need the database when none is configured.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")

	// ErrAudioNotFound is returned when a synthesized clip is unknown or expired.
	ErrAudioNotFound = errors.New("audio not found")
)
