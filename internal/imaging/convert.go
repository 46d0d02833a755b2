package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

// Channel selects which intensity of each pixel becomes a sample.
type Channel string

const (
	// ChannelGray is ITU-R BT.601 luma, 16-bit for 16-bit images.
	ChannelGray Channel = "gray"

	ChannelRed   Channel = "red"
	ChannelGreen Channel = "green"
	ChannelBlue  Channel = "blue"
	ChannelAlpha Channel = "alpha"

	// ChannelLightness is CIE L* scaled to 0..255.
	ChannelLightness Channel = "lightness"

	// ChannelGradient is the Sobel gradient magnitude of blurred luminance,
	// scaled to 0..255. Comparing gradients rather than intensities ignores
	// smooth shading differences between the images.
	ChannelGradient Channel = "gradient"

	// ChannelBinary thresholds luminance at BinaryThreshold into a boolean
	// image. Fully transparent pixels are true.
	ChannelBinary Channel = "binary"
)

// BinaryThreshold is the 8-bit luminance at or above which a pixel is true.
const BinaryThreshold = 128

// Channels lists every supported channel.
var Channels = []Channel{
	ChannelGray, ChannelRed, ChannelGreen, ChannelBlue, ChannelAlpha, ChannelLightness, ChannelGradient, ChannelBinary,
}

// ParseChannel parses a channel name case-insensitively. The empty string
// selects ChannelGray.
func ParseChannel(s string) (Channel, error) {
	if s == "" {
		return ChannelGray, nil
	}
	for _, c := range Channels {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown channel: %s", s)
}

// Samples is one channel of an image (or image region) laid out as a
// height×width intensity array.
type Samples struct {
	Image *mutualinfo.Image

	// BitDepth is the scale the samples are on: 16 for gray and color channels
	// of 16-bit images, 8 otherwise. Boolean samples report 1.
	BitDepth int

	Channel Channel
	Width   int
	Height  int
}

// ToSamples extracts one channel of img, restricted to region when it is not nil.
//
// Returns an error if the region falls outside the image bounds or is empty.
func ToSamples(img image.Image, ch Channel, region *Region) (*Samples, error) {
	rect := img.Bounds()
	if region != nil {
		r, err := region.Rect(img.Bounds())
		if err != nil {
			return nil, err
		}
		rect = r
	}

	w, h := rect.Dx(), rect.Dy()
	out := &Samples{Channel: ch, Width: w, Height: h, BitDepth: 8}
	shape := []int{h, w}

	switch ch {
	case ChannelGray, ChannelRed, ChannelGreen, ChannelBlue, ChannelAlpha:
		if NativeBitDepth(img) == 16 {
			out.BitDepth = 16
			out.Image = mutualinfo.FromSlice(shape, channel16(img, rect, ch))
			return out, nil
		}
		out.Image = mutualinfo.FromSlice(shape, channel8(img, rect, ch))
	case ChannelLightness:
		out.Image = mutualinfo.FromSlice(shape, lightness(img, rect))
	case ChannelGradient:
		out.Image = mutualinfo.FromSlice(shape, gradient(img, rect))
	case ChannelBinary:
		out.BitDepth = 1
		out.Image = mutualinfo.FromBools(shape, binary(img, rect))
	default:
		return nil, fmt.Errorf("unknown channel: %s", ch)
	}
	return out, nil
}

func channel8(img image.Image, rect image.Rectangle, ch Channel) []uint8 {
	src := crop8(img, rect)
	offset := 0
	switch ch {
	case ChannelGray:
		src = imaging.Grayscale(src)
	case ChannelGreen:
		offset = 1
	case ChannelBlue:
		offset = 2
	case ChannelAlpha:
		offset = 3
	}

	w, h := rect.Dx(), rect.Dy()
	data := make([]uint8, 0, w*h)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		for x := 0; x < w; x++ {
			data = append(data, row[x*4+offset])
		}
	}
	return data
}

func channel16(img image.Image, rect image.Rectangle, ch Channel) []uint16 {
	data := make([]uint16, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			n := color.NRGBA64Model.Convert(img.At(x, y)).(color.NRGBA64)
			switch ch {
			case ChannelGray:
				data = append(data, gray16(n))
			case ChannelRed:
				data = append(data, n.R)
			case ChannelGreen:
				data = append(data, n.G)
			case ChannelBlue:
				data = append(data, n.B)
			default:
				data = append(data, n.A)
			}
		}
	}
	return data
}

// gray16 weighs un-premultiplied channels with the same BT.601 coefficients
// imaging.Grayscale uses for 8-bit images.
func gray16(c color.NRGBA64) uint16 {
	f := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	return uint16(f + 0.5)
}

// lightness maps CIE L* in [0,1] onto 0..255. Fully transparent pixels map to 0.
func lightness(img image.Image, rect image.Rectangle) []uint8 {
	data := make([]uint8, 0, rect.Dx()*rect.Dy())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				data = append(data, 0)
				continue
			}
			l, _, _ := c.Lab()
			l = math.Max(0, math.Min(1, l))
			data = append(data, uint8(math.Round(l*255)))
		}
	}
	return data
}

func binary(img image.Image, rect image.Rectangle) []bool {
	gray := segment.Threshold(crop8(img, rect), BinaryThreshold)
	w, h := rect.Dx(), rect.Dy()
	data := make([]bool, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			data = append(data, gray.Pix[y*gray.Stride+x] > 0)
		}
	}
	return data
}
