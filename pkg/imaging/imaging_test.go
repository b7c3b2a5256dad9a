package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uniformImage(w, h int, c color.Color) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestDecode_PNG(t *testing.T) {
	data := encodePNG(t, uniformImage(8, 6, color.White))

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Equal(t, 8, decoded.Width)
	require.Equal(t, 6, decoded.Height)
}

func TestDecode_JPEG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, uniformImage(10, 10, color.Black), nil))

	decoded, err := Decode(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, 10, decoded.Width)
	require.Equal(t, 10, decoded.Height)
}

func TestDecode_GrayscaleNormalizedToRGB(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			gray.SetGray(x, y, color.Gray{Y: 200})
		}
	}

	decoded, err := Decode(encodePNG(t, gray))
	require.NoError(t, err)

	data := decoded.Featurize(4, [3]float32{0, 0, 0}, [3]float32{1, 1, 1})
	plane := 4 * 4
	for i := 0; i < plane; i++ {
		require.InDelta(t, data[i], data[plane+i], 1e-6)
		require.InDelta(t, data[i], data[2*plane+i], 1e-6)
	}
}

func TestDecode_CorruptBytes(t *testing.T) {
	_, err := Decode([]byte("definitely not an image"))
	require.ErrorIs(t, err, ErrDecode)
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(nil)
	require.ErrorIs(t, err, ErrDecode)
}

func TestFeaturize_Normalization(t *testing.T) {
	decoded, err := Decode(encodePNG(t, uniformImage(16, 16, color.White)))
	require.NoError(t, err)

	data := decoded.Featurize(8, [3]float32{0.5, 0.5, 0.5}, [3]float32{0.5, 0.5, 0.5})
	require.Len(t, data, 3*8*8)

	// white pixels map to (1.0 - 0.5) / 0.5 = 1.0 on every channel
	for _, v := range data {
		require.InDelta(t, 1.0, v, 0.02)
	}
}

func TestLetterbox_PadsShorterAxis(t *testing.T) {
	decoded, err := Decode(encodePNG(t, uniformImage(8, 4, color.White)))
	require.NoError(t, err)

	res := decoded.Letterbox(8, 8)
	require.InDelta(t, 1.0, res.Gain, 1e-9)
	require.InDelta(t, 0.0, res.PadX, 1e-9)
	require.InDelta(t, 2.0, res.PadY, 1e-9)
	require.Len(t, res.Data, 3*8*8)

	const gray = 114.0 / 255.0
	// top padding rows stay neutral gray, the image band is white
	require.InDelta(t, gray, res.Data[0], 0.01)
	require.InDelta(t, gray, res.Data[1*8+3], 0.01)
	require.InDelta(t, 1.0, res.Data[3*8+3], 0.02)
	require.InDelta(t, gray, res.Data[7*8+3], 0.01)
}

func TestLetterbox_Downscale(t *testing.T) {
	decoded, err := Decode(encodePNG(t, uniformImage(64, 32, color.White)))
	require.NoError(t, err)

	res := decoded.Letterbox(16, 16)
	require.InDelta(t, 0.25, res.Gain, 1e-9)
	require.InDelta(t, 0.0, res.PadX, 1e-9)
	require.InDelta(t, 4.0, res.PadY, 1e-9)
}
