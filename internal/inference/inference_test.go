package inference

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"net/http"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arogyakrishi/internal/model"
)

const modelURL = "https://model.test/predict"

func leafPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := imaging.New(w, h, c)
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestPreprocess(t *testing.T) {
	sample, err := Preprocess(leafPNG(t, 640, 480, color.NRGBA{R: 255, G: 0, B: 51, A: 255}))
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, model.InferenceWidth, model.InferenceHeight), sample.Image.Bounds())
	require.Len(t, sample.Pixels, model.InferenceWidth*model.InferenceHeight*3)
	assert.InDelta(t, 1.0, sample.Pixels[0], 1e-3)
	assert.InDelta(t, 0.0, sample.Pixels[1], 1e-3)
	assert.InDelta(t, 0.2, sample.Pixels[2], 1e-2)
}

func TestPreprocess_Rejects(t *testing.T) {
	_, err := Preprocess(nil)
	assert.ErrorIs(t, err, model.ErrEmptyImage)

	_, err = Preprocess([]byte("definitely not an image"))
	assert.Error(t, err)
}

func TestMockPredictor_Deterministic(t *testing.T) {
	sample, err := Preprocess(leafPNG(t, 300, 300, color.NRGBA{G: 180, A: 255}))
	require.NoError(t, err)

	p := NewMockPredictor()
	first, err := p.Predict(context.Background(), sample)
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), sample)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, first.Validate())
	assert.GreaterOrEqual(t, first.Confidence, 0.40)
	assert.LessOrEqual(t, first.Confidence, 0.99)
}

func TestMockPredictor_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockPredictor().Predict(ctx, &Sample{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRemotePredictor(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)

	sample, err := Preprocess(leafPNG(t, 224, 224, color.NRGBA{G: 120, A: 255}))
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodPost, modelURL, func(req *http.Request) (*http.Response, error) {
			if err := req.ParseMultipartForm(1 << 20); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, err.Error()), nil
			}
			if _, _, err := req.FormFile("image"); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, "missing image"), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, Prediction{Disease: "Rice Blast", Confidence: 0.91, Crop: "Rice"})
		})

		pred, err := NewRemotePredictor(modelURL, time.Second).Predict(context.Background(), sample)
		require.NoError(t, err)
		assert.Equal(t, Prediction{Disease: "Rice Blast", Confidence: 0.91, Crop: "Rice"}, pred)
	})

	t.Run("server error", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodPost, modelURL, httpmock.NewStringResponder(http.StatusServiceUnavailable, "loading"))

		_, err := NewRemotePredictor(modelURL, time.Second).Predict(context.Background(), sample)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=503")
	})

	t.Run("out of range confidence", func(t *testing.T) {
		httpmock.RegisterResponder(http.MethodPost, modelURL, httpmock.NewStringResponder(http.StatusOK,
			`{"disease": "Rice Blast", "confidence": 7.5, "crop": "Rice"}`))

		_, err := NewRemotePredictor(modelURL, time.Second).Predict(context.Background(), sample)
		assert.ErrorIs(t, err, ErrInvalidPrediction)
	})
}
