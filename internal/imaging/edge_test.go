package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"
)

// createEdgeTestImage draws a black square over the middle half of a white image.
func createEdgeTestImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}

	for y := height / 4; y < 3*height/4; y++ {
		for x := width / 4; x < 3*width/4; x++ {
			img.Set(x, y, color.Black)
		}
	}

	return img
}

func TestGradient_Flat(t *testing.T) {
	img := createInMemoryImage(20, 20, color.RGBA{120, 60, 30, 255})

	for _, v := range gradient(img, img.Bounds()) {
		require.Equal(t, uint8(0), v)
	}
}

func TestGradient_Square(t *testing.T) {
	r := require.New(t)
	img := createEdgeTestImage(40, 40)

	g := gradient(img, img.Bounds())
	r.Len(g, 40*40)

	at := func(x, y int) uint8 { return g[y*40+x] }

	// Far from any edge in both the background and the square.
	r.Equal(uint8(0), at(0, 0))
	r.Equal(uint8(0), at(20, 20))

	// On each side of the square.
	r.Greater(at(10, 20), uint8(0))
	r.Greater(at(29, 20), uint8(0))
	r.Greater(at(20, 10), uint8(0))
	r.Greater(at(20, 29), uint8(0))
}

func TestToSamples_Gradient(t *testing.T) {
	r := require.New(t)
	img := createEdgeTestImage(40, 40)

	s, err := ToSamples(img, ChannelGradient, &Region{X1: 0, Y1: 0, X2: 20, Y2: 10})
	r.NoError(err)
	r.Equal(8, s.BitDepth)
	r.Equal([]int{10, 20}, s.Image.Shape)
	r.False(s.Image.Bool)

	res, err := CompareSamples(s, s, CompareOptions{Channel: ChannelGradient, BitDepth: 8})
	r.NoError(err)
	r.InDelta(res.EntropyA, res.MutualInformation, 1e-9)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		v, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{11, 0, 10, 10},
		{0, 0, 0, 0},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, clamp(tt.v, tt.lo, tt.hi))
	}
}
