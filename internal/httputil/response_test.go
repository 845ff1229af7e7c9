package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arogyakrishi/internal/model"
)

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteBadRequest(rec, "lat must be a number")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeBadRequest, body.Error.Code)
	assert.Equal(t, "lat must be a number", body.Error.Message)
}

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("%w: %q", model.ErrUnsupportedLanguage, "fr"), http.StatusBadRequest, model.CodeUnsupportedLanguage},
		{model.ErrInvalidCoordinates, http.StatusBadRequest, model.CodeInvalidCoordinates},
		{model.ErrInvalidImageType, http.StatusBadRequest, model.CodeInvalidImageType},
		{model.ErrFileTooLarge, http.StatusRequestEntityTooLarge, model.CodeFileTooLarge},
		{model.ErrDeviceTokenRequired, http.StatusBadRequest, ErrCodeBadRequest},
		{model.ErrPersistenceUnavailable, http.StatusServiceUnavailable, model.CodePersistenceUnavailable},
		{model.ErrAudioNotFound, http.StatusNotFound, ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			require.True(t, WriteDomainError(rec, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestWriteDomainError_Unknown(t *testing.T) {
	rec := httptest.NewRecorder()
	assert.False(t, WriteDomainError(rec, errors.New("connection reset")))
	assert.Zero(t, rec.Body.Len())
}
