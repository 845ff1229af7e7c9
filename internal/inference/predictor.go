// Package inference prepares leaf images and classifies them into a crop
// and disease label.
package inference

import (
	"context"
	"errors"
	"image"
)

// ErrInvalidPrediction is returned when a backend answers with an unusable result.
var ErrInvalidPrediction = errors.New("invalid prediction")

// Prediction is the classifier output. Labels are canonical English names.
type Prediction struct {
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"`
	Crop       string  `json:"crop"`
}

// Validate checks the confidence range and that both labels are present.
func (p Prediction) Validate() error {
	if p.Disease == "" || p.Crop == "" {
		return ErrInvalidPrediction
	}
	if p.Confidence < 0 || p.Confidence > 1 {
		return ErrInvalidPrediction
	}
	return nil
}

// Sample is a preprocessed image ready for classification.
type Sample struct {
	// Image is the resized RGBA image.
	Image *image.NRGBA
	// Pixels holds RGB values scaled to [0,1] in row-major HWC order.
	Pixels []float32
}

// Predictor classifies a preprocessed sample.
type Predictor interface {
	Predict(ctx context.Context, s *Sample) (Prediction, error)
}
