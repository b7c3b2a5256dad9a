// Package imaging turns uploaded image bytes into the canonical pixel form
// and the tensor layouts the model runtimes expect.
package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

var ErrDecode = errors.New("cannot decode image")

// DecodedImage is an in-memory pixel grid in canonical RGB form, kept at the
// source dimensions.
type DecodedImage struct {
	rgba   *image.RGBA
	Width  int
	Height int
}

// Decode parses encoded bytes and normalizes the pixels to the canonical
// 3-channel encoding regardless of the source mode (grayscale, palette,
// RGBA and so on).
func Decode(data []byte) (*DecodedImage, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrDecode
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)

	return &DecodedImage{
		rgba:   rgba,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
	}, nil
}

// Featurize resizes to size×size and packs the pixels as CHW float32 with
// per-channel normalization: (p - mean) / std on 0..1 values.
func (d *DecodedImage) Featurize(size int, mean, std [3]float32) []float32 {
	resized := resize.Resize(uint(size), uint(size), d.rgba, resize.Lanczos3)

	data := make([]float32, 3*size*size)
	plane := size * size
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			idx := y*size + x
			data[idx] = (float32(r)/65535.0 - mean[0]) / std[0]
			data[plane+idx] = (float32(g)/65535.0 - mean[1]) / std[1]
			data[2*plane+idx] = (float32(b)/65535.0 - mean[2]) / std[2]
		}
	}

	return data
}

// LetterboxResult carries the tensor plus the parameters needed to map model
// coordinates back into the source image.
type LetterboxResult struct {
	Data []float32
	Gain float64
	PadX float64
	PadY float64
}

// Letterbox scales the image into targetW×targetH preserving aspect ratio,
// pads the remainder with neutral gray, and packs CHW float32 scaled to 0..1.
func (d *DecodedImage) Letterbox(targetW, targetH int) *LetterboxResult {
	gain := min(float64(targetW)/float64(d.Width), float64(targetH)/float64(d.Height))
	scaledW := int(float64(d.Width) * gain)
	scaledH := int(float64(d.Height) * gain)
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}
	padX := float64(targetW-scaledW) / 2
	padY := float64(targetH-scaledH) / 2

	resized := resize.Resize(uint(scaledW), uint(scaledH), d.rgba, resize.Lanczos3)

	const gray = float32(114.0 / 255.0)
	plane := targetW * targetH
	data := make([]float32, 3*plane)
	for i := range data {
		data[i] = gray
	}

	offX := int(padX)
	offY := int(padY)
	for y := 0; y < scaledH; y++ {
		for x := 0; x < scaledW; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()

			idx := (y+offY)*targetW + (x + offX)
			data[idx] = float32(r) / 65535.0
			data[plane+idx] = float32(g) / 65535.0
			data[2*plane+idx] = float32(b) / 65535.0
		}
	}

	return &LetterboxResult{
		Data: data,
		Gain: gain,
		PadX: padX,
		PadY: padY,
	}
}
