package inference

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"

	"arogyakrishi/internal/model"
)

// Preprocess decodes an uploaded JPEG or PNG, center-crops it to the model
// input size and scales the channels to [0,1].
func Preprocess(data []byte) (*Sample, error) {
	if len(data) == 0 {
		return nil, model.ErrEmptyImage
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, model.InferenceWidth, model.InferenceHeight, imaging.Center, imaging.Lanczos)

	bounds := resized.Bounds()
	pixels := make([]float32, 0, bounds.Dx()*bounds.Dy()*3)
	for y := 0; y < bounds.Dy(); y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+bounds.Dx()*4]
		for x := 0; x < len(row); x += 4 {
			pixels = append(pixels,
				float32(row[x])/255,
				float32(row[x+1])/255,
				float32(row[x+2])/255,
			)
		}
	}

	return &Sample{Image: resized, Pixels: pixels}, nil
}
