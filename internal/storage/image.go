package storage

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"

	"arogyakrishi/internal/model"
)

// ReadLimited reads at most maxSize bytes from r. Larger payloads return
// model.ErrFileTooLarge without buffering the remainder.
func ReadLimited(r io.Reader, maxSize int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, model.ErrFileTooLarge
	}
	return data, nil
}

// ValidateImage checks size and type of an uploaded image and returns the
// effective content type. An empty declared type is sniffed from the bytes.
func ValidateImage(data []byte, contentType string, maxSize int64) (string, error) {
	if int64(len(data)) > maxSize {
		return "", model.ErrFileTooLarge
	}
	if len(data) == 0 {
		return "", model.ErrEmptyImage
	}

	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(strings.ToLower(contentType)) {
		return "", model.ErrInvalidImageType
	}
	return strings.ToLower(contentType), nil
}

// ResizeToJPEG center-crops to the target size and encodes as JPEG.
func ResizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
