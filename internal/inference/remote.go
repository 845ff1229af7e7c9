package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
)

// RemotePredictor sends the preprocessed image to a model server that
// answers with a JSON Prediction.
type RemotePredictor struct {
	url        string
	httpClient *http.Client
}

// NewRemotePredictor creates a client for the model server at url.
func NewRemotePredictor(url string, timeout time.Duration) *RemotePredictor {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemotePredictor{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Predict implements Predictor. The image is uploaded as multipart field
// "image" in PNG format at the model input size.
func (p *RemotePredictor) Predict(ctx context.Context, s *Sample) (Prediction, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "leaf.png")
	if err != nil {
		return Prediction{}, fmt.Errorf("create form file: %w", err)
	}
	if err := imaging.Encode(part, s.Image, imaging.PNG); err != nil {
		return Prediction{}, fmt.Errorf("encode png: %w", err)
	}
	if err := mw.Close(); err != nil {
		return Prediction{}, fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, &body)
	if err != nil {
		return Prediction{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Prediction{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Prediction{}, fmt.Errorf("model server error: status=%d body=%s", resp.StatusCode, string(msg))
	}

	var pred Prediction
	if err := json.NewDecoder(resp.Body).Decode(&pred); err != nil {
		return Prediction{}, fmt.Errorf("decode prediction: %w", err)
	}
	if err := pred.Validate(); err != nil {
		return Prediction{}, fmt.Errorf("%w: %+v", err, pred)
	}
	return pred, nil
}
