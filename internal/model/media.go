package model

import "errors"

const (
	// DefaultMaxImageSizeBytes applies when no explicit limit is configured.
	DefaultMaxImageSizeBytes = 10 * 1024 * 1024

	// Model input size for the leaf classifier.
	InferenceWidth  = 224
	InferenceHeight = 224

	ArchiveFolder       = "detections"
	ArchiveWidth        = 512
	ArchiveHeight       = 512
	ArchiveExt          = ".jpg"
	ArchiveCacheControl = "private, max-age=31536000"
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
)

// ContentTypeMPEG is the content type of synthesized speech.
const ContentTypeMPEG = "audio/mpeg"

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
}

// Error codes for HTTP responses
const (
	CodeFileTooLarge     = "FILE_TOO_LARGE"
	CodeInvalidImageType = "INVALID_IMAGE_TYPE"
)

// Domain errors for media operations
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrEmptyImage       = errors.New("empty image")
)

// UploadResult is the location of an archived object.
type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
