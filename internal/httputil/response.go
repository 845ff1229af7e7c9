package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"arogyakrishi/internal/model"
)

// Generic error codes; domain codes live in internal/model.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent; nothing useful to do on failure.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes {"error": {"code": "ERROR_CODE", "message": "..."}}.
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// WriteBadRequestWithCode writes a 400 Bad Request error with a custom code
func WriteBadRequestWithCode(w http.ResponseWriter, code string, message string) {
	WriteError(w, http.StatusBadRequest, code, message)
}

// WriteNotFound writes a 404 Not Found error
func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// WriteDomainError maps a known domain error to its status and code. It
// reports false when err is not a client-facing domain error, leaving the
// response untouched.
func WriteDomainError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, model.ErrUnsupportedLanguage):
		WriteBadRequestWithCode(w, model.CodeUnsupportedLanguage, err.Error())
	case errors.Is(err, model.ErrInvalidCoordinates):
		WriteBadRequestWithCode(w, model.CodeInvalidCoordinates, err.Error())
	case errors.Is(err, model.ErrInvalidImageType):
		WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Invalid image type. Allowed: image/jpeg, image/png")
	case errors.Is(err, model.ErrEmptyImage):
		WriteBadRequestWithCode(w, model.CodeInvalidImageType, "Image is empty")
	case errors.Is(err, model.ErrFileTooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, model.CodeFileTooLarge, "Image exceeds the maximum upload size")
	case errors.Is(err, model.ErrDeviceTokenRequired), errors.Is(err, model.ErrEmptyMessage):
		WriteBadRequest(w, err.Error())
	case errors.Is(err, model.ErrPersistenceUnavailable):
		WriteError(w, http.StatusServiceUnavailable, model.CodePersistenceUnavailable, "Database is not configured")
	case errors.Is(err, model.ErrAudioNotFound):
		WriteNotFound(w, "Audio not found")
	default:
		return false
	}
	return true
}
