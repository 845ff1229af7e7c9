package inference

import (
	"context"
	"hash/fnv"
	"math"
)

type mockLabel struct {
	crop    string
	disease string
}

var mockLabels = []mockLabel{
	{"Tomato", "Tomato Late Blight"},
	{"Tomato", "Tomato Early Blight"},
	{"Potato", "Potato Late Blight"},
	{"Rice", "Rice Blast"},
	{"Maize", "Maize Common Rust"},
	{"Tomato", "Healthy"},
}

// MockPredictor derives a stable label from the image content so that the
// same photo always yields the same answer. It is the default until a model
// server is configured.
type MockPredictor struct{}

// NewMockPredictor creates a MockPredictor.
func NewMockPredictor() *MockPredictor {
	return &MockPredictor{}
}

// Predict implements Predictor.
func (MockPredictor) Predict(ctx context.Context, s *Sample) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, err
	}

	h := fnv.New64a()
	buf := make([]byte, 4)
	for _, v := range s.Pixels {
		bits := math.Float32bits(v)
		buf[0], buf[1], buf[2], buf[3] = byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24)
		_, _ = h.Write(buf)
	}
	sum := h.Sum64()

	label := mockLabels[sum%uint64(len(mockLabels))]
	// Spread confidence over [0.40, 0.99] so both sides of the alert
	// threshold show up during manual testing.
	confidence := 0.40 + float64((sum>>8)%60)/100

	return Prediction{
		Disease:    label.disease,
		Confidence: confidence,
		Crop:       label.crop,
	}, nil
}
