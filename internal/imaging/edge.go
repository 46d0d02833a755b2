package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// GradientSigma is the Gaussian blur applied before the Sobel operator.
const GradientSigma = 1.0

// maxSobel is the largest Sobel magnitude of a luminance image scaled to [0,1].
var maxSobel = 4 * math.Sqrt2

var (
	sobelX = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
	sobelY = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
)

// gradient returns the Sobel gradient magnitude of the blurred luminance of rect,
// scaled so the strongest possible edge maps to 255. Flat areas map to 0.
//
// Border pixels replicate their nearest neighbor, so the edge of the region does
// not register as a gradient.
func gradient(img image.Image, rect image.Rectangle) []uint8 {
	src := imaging.Grayscale(crop8(img, rect))
	if GradientSigma > 0 {
		src = imaging.Blur(src, GradientSigma)
	}

	w, h := rect.Dx(), rect.Dy()
	lum := func(x, y int) float64 {
		x = clamp(x, 0, w-1)
		y = clamp(y, 0, h-1)
		return float64(src.Pix[y*src.Stride+x*4]) / 255
	}

	data := make([]uint8, 0, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var gx, gy float64
			for ky := -1; ky <= 1; ky++ {
				for kx := -1; kx <= 1; kx++ {
					v := lum(x+kx, y+ky)
					gx += v * sobelX[ky+1][kx+1]
					gy += v * sobelY[ky+1][kx+1]
				}
			}
			mag := math.Sqrt(gx*gx+gy*gy) / maxSobel
			data = append(data, uint8(math.Round(math.Min(1, mag)*255)))
		}
	}
	return data
}

// clamp constrains v to the range [lo, hi].
func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
