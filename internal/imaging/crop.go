package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

// Region represents a rectangular region within an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
//   - Width = X2 - X1, Height = Y2 - Y1
type Region struct {
	X1 int `json:"x1"` // Left edge X coordinate (inclusive)
	Y1 int `json:"y1"` // Top edge Y coordinate (inclusive)
	X2 int `json:"x2"` // Right edge X coordinate (exclusive)
	Y2 int `json:"y2"` // Bottom edge Y coordinate (exclusive)
}

// Width returns X2 - X1.
func (r Region) Width() int { return r.X2 - r.X1 }

// Height returns Y2 - Y1.
func (r Region) Height() int { return r.Y2 - r.Y1 }

// Rect validates the region against the image bounds and returns it as a rectangle.
func (r Region) Rect(bounds image.Rectangle) (image.Rectangle, error) {
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return image.Rectangle{}, regionErrorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return image.Rectangle{}, regionErrorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2), nil
}

// NamedRegion returns one of the named regions of an image: top-left, top-right,
// bottom-left, bottom-right, top-half, bottom-half, left-half, right-half or
// center (the middle 50% in each direction). Images too small to hold a
// non-empty region of that name are rejected.
func NamedRegion(bounds image.Rectangle, name string) (*Region, error) {
	w := bounds.Dx()
	h := bounds.Dy()
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch name {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return nil, regionErrorf("unknown region: %s", name)
	}
	if x1 >= x2 || y1 >= y2 {
		return nil, regionErrorf("region %s is empty for a %dx%d image", name, w, h)
	}

	return &Region{
		X1: bounds.Min.X + x1,
		Y1: bounds.Min.Y + y1,
		X2: bounds.Min.X + x2,
		Y2: bounds.Min.Y + y2,
	}, nil
}

func regionErrorf(format string, args ...interface{}) error {
	return &mutualinfo.InvalidInputError{
		Kind:   mutualinfo.ErrInvalidParameter,
		Detail: fmt.Sprintf(format, args...),
	}
}

// crop8 copies rect out of img as an 8-bit NRGBA image anchored at (0,0).
func crop8(img image.Image, rect image.Rectangle) *image.NRGBA {
	return imaging.Crop(img, rect)
}
