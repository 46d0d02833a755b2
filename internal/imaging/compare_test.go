package imaging

import (
	"image"
	"image/color"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

// createQuadrantGray creates a gray image with a distinct value per quadrant.
func createQuadrantGray(width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8(0)
			if x >= width/2 {
				v += 64
			}
			if y >= height/2 {
				v += 160
			}
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	return img
}

func TestCompareImages_SelfIsEntropy(t *testing.T) {
	r := require.New(t)

	img := createQuadrantGray(40, 40)
	res, err := CompareImages(img, img, nil, nil, CompareOptions{BitDepth: 8})
	r.NoError(err)

	// Four equally likely levels
	r.InDelta(2.0, res.MutualInformation, 1e-12)
	r.InDelta(2.0, res.EntropyA, 1e-12)
	r.InDelta(1.0, res.NormalizedMI, 1e-12)
	r.InDelta(1.0, res.Correlation, 1e-12)
	r.Equal(ChannelGray, res.Channel)
	r.Equal(256, res.Levels)
	r.Equal(1600, res.Samples)
}

func TestCompareImages_ConstantIsZero(t *testing.T) {
	r := require.New(t)

	res, err := CompareImages(
		createInMemoryImage(20, 20, color.RGBA{10, 20, 30, 255}),
		createGradientGray(20, 20),
		nil, nil, CompareOptions{BitDepth: 8},
	)
	r.NoError(err)
	r.Equal(0.0, res.MutualInformation)
	r.Equal(0.0, res.Correlation)
}

func TestCompareImages_SizeMismatch(t *testing.T) {
	_, err := CompareImages(createGradientGray(10, 10), createGradientGray(10, 12), nil, nil, CompareOptions{BitDepth: 8})
	require.True(t, errors.Is(err, mutualinfo.ErrInvalidShape), "got %v", err)
}

func TestCompareImages_InvalidBitDepth(t *testing.T) {
	img := createGradientGray(4, 4)
	_, err := CompareImages(img, img, nil, nil, CompareOptions{BitDepth: 0})
	require.True(t, errors.Is(err, mutualinfo.ErrInvalidParameter), "got %v", err)
}

func TestCompareImages_MixedDepths(t *testing.T) {
	r := require.New(t)

	a := createQuadrantGray(8, 8)
	b := image.NewGray16(a.Bounds())
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := uint16(a.GrayAt(x, y).Y)
			b.SetGray16(x, y, color.Gray16{Y: v<<8 | 0x7F})
		}
	}

	res, err := CompareImages(a, b, nil, nil, CompareOptions{BitDepth: 8})
	r.NoError(err)
	r.InDelta(2.0, res.MutualInformation, 1e-12)
}

func TestCompareSamples_SourceBitDepthMixedDepths(t *testing.T) {
	r := require.New(t)

	// b holds the values of a as 12-bit data in a 16-bit container
	a := image.NewGray(image.Rect(0, 0, 16, 16))
	b := image.NewGray16(a.Bounds())
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			v := uint8(y*16 + x)
			a.SetGray(x, y, color.Gray{Y: v})
			b.SetGray16(x, y, color.Gray16{Y: uint16(v) << 4})
		}
	}

	sa, err := ToSamples(a, ChannelGray, nil)
	r.NoError(err)
	sb, err := ToSamples(b, ChannelGray, nil)
	r.NoError(err)

	// Read as 16-bit, the low 4 bits of a are lost in b
	res, err := CompareSamples(sa, sb, CompareOptions{BitDepth: 8})
	r.NoError(err)
	r.InDelta(4.0, res.MutualInformation, 1e-9)

	res, err = CompareSamples(sa, sb, CompareOptions{BitDepth: 8, SourceBitDepth: 12})
	r.NoError(err)
	r.InDelta(8.0, res.MutualInformation, 1e-9)

	// Swapping the sides applies the override to the 16-bit image again
	res, err = CompareSamples(sb, sa, CompareOptions{BitDepth: 8, SourceBitDepth: 12})
	r.NoError(err)
	r.InDelta(8.0, res.MutualInformation, 1e-9)

	// The caller's samples are left on their native scale
	r.Equal(16, sb.BitDepth)
	r.Equal(float64(255<<4), sb.Image.Samples[255])

	_, err = CompareSamples(sa, sb, CompareOptions{BitDepth: 8, SourceBitDepth: 40})
	r.True(errors.Is(err, mutualinfo.ErrInvalidParameter), "got %v", err)
}

func TestCompareRegions(t *testing.T) {
	r := require.New(t)

	img := createQuadrantGray(40, 40)

	// Top-left and top-right quadrants are each constant
	res, err := CompareRegions(img, Region{0, 0, 20, 20}, Region{20, 0, 40, 20}, CompareOptions{BitDepth: 8})
	r.NoError(err)
	r.Equal(0.0, res.MutualInformation)
	r.Equal(20, res.Width)
	r.Equal(20, res.Height)

	// Left and right halves share the vertical split
	res, err = CompareRegions(img, Region{0, 0, 20, 40}, Region{20, 0, 40, 40}, CompareOptions{BitDepth: 8})
	r.NoError(err)
	r.InDelta(1.0, res.MutualInformation, 1e-12)

	_, err = CompareRegions(img, Region{0, 0, 20, 20}, Region{0, 0, 10, 10}, CompareOptions{BitDepth: 8})
	r.True(errors.Is(err, mutualinfo.ErrInvalidShape))
}

func TestCompareImages_Binary(t *testing.T) {
	r := require.New(t)

	img := createQuadrantGray(10, 10)
	res, err := CompareImages(img, img, nil, nil, CompareOptions{Channel: ChannelBinary, BitDepth: 8})
	r.NoError(err)
	r.Equal(2, res.Levels)
	// Bottom half is above the threshold, top half below
	r.InDelta(1.0, res.MutualInformation, 1e-12)
}

func TestSummarize(t *testing.T) {
	r := require.New(t)

	s, err := ToSamples(createQuadrantGray(10, 10), ChannelGray, nil)
	r.NoError(err)

	st, err := Summarize(s)
	r.NoError(err)
	r.Equal(100, st.Count)
	r.Equal(0.0, st.Min)
	r.Equal(224.0, st.Max)
	r.InDelta(112.0, st.Mean, 1e-9)
	r.Equal(4, st.Distinct)
	r.Equal(8, st.BitDepth)
}
