package mutualinfo

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Number is any element type an Image can be built from.
type Number interface {
	constraints.Integer | constraints.Float
}

// Image is an N-dimensional array of intensity samples stored in row-major order.
//
// The estimator only cares about element-wise correspondence between two images,
// so the layout of dimensions is irrelevant beyond requiring both images to share
// the same Shape. Samples hold non-negative integer values; they are kept as
// float64 so that non-integer input can be detected and rejected rather than
// silently truncated.
//
// A boolean image (Bool == true) holds only 0 and 1 and is always binned into
// two levels, regardless of the requested bit depth.
type Image struct {
	Shape   []int
	Samples []float64
	Bool    bool

	// ragged is set by the matrix constructors when rows differ in length.
	ragged bool
}

// FromSlice builds an image of the given shape from flattened row-major data.
func FromSlice[T Number](shape []int, data []T) *Image {
	samples := make([]float64, len(data))
	for i, v := range data {
		samples[i] = float64(v)
	}
	return &Image{Shape: append([]int(nil), shape...), Samples: samples}
}

// FromMatrix builds a 2-D image from rows. The shape is taken from the number of
// rows and the length of the first row; ragged input is rejected by validation.
func FromMatrix[T Number](rows [][]T) *Image {
	img := &Image{Shape: matrixShape(rows), ragged: isRagged(rows)}
	for _, row := range rows {
		for _, v := range row {
			img.Samples = append(img.Samples, float64(v))
		}
	}
	return img
}

// FromBools builds a boolean image of the given shape.
func FromBools(shape []int, data []bool) *Image {
	samples := make([]float64, len(data))
	for i, v := range data {
		if v {
			samples[i] = 1
		}
	}
	return &Image{Shape: append([]int(nil), shape...), Samples: samples, Bool: true}
}

// FromBoolMatrix builds a 2-D boolean image from rows.
func FromBoolMatrix(rows [][]bool) *Image {
	img := &Image{Shape: matrixShape(rows), Bool: true, ragged: isRagged(rows)}
	for _, row := range rows {
		for _, v := range row {
			if v {
				img.Samples = append(img.Samples, 1)
			} else {
				img.Samples = append(img.Samples, 0)
			}
		}
	}
	return img
}

func matrixShape[T any](rows [][]T) []int {
	if len(rows) == 0 {
		return []int{0, 0}
	}
	return []int{len(rows), len(rows[0])}
}

func isRagged[T any](rows [][]T) bool {
	for _, row := range rows {
		if len(row) != len(rows[0]) {
			return true
		}
	}
	return false
}

// Len returns the number of samples.
func (img *Image) Len() int {
	return len(img.Samples)
}

// String formats the image shape, e.g. "2x3" or "2x3 bool".
func (img *Image) String() string {
	s := ""
	for i, d := range img.Shape {
		if i > 0 {
			s += "x"
		}
		s += fmt.Sprint(d)
	}
	if img.Bool {
		s += " bool"
	}
	return s
}

// validateShape checks that the image has a usable shape matching its samples.
func (img *Image) validateShape(name string) error {
	if img == nil {
		return shapeErrorf("image %s is nil", name)
	}
	if len(img.Shape) == 0 {
		return shapeErrorf("image %s has no dimensions", name)
	}
	if img.ragged {
		return shapeErrorf("image %s has rows of different lengths", name)
	}
	size := 1
	for _, d := range img.Shape {
		if d <= 0 {
			return shapeErrorf("image %s has non-positive dimension in shape %v", name, img.Shape)
		}
		size *= d
	}
	if size != len(img.Samples) {
		return shapeErrorf("image %s has %d samples, shape %v requires %d", name, len(img.Samples), img.Shape, size)
	}
	return nil
}

// validateValues checks that every sample is a non-negative integer, or 0/1 for
// boolean images.
func (img *Image) validateValues(name string) error {
	for i, v := range img.Samples {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			return valueErrorf("image %s sample %d is %v", name, i, v)
		case v < 0:
			return valueErrorf("image %s sample %d is negative (%v)", name, i, v)
		case v != math.Trunc(v):
			return valueErrorf("image %s sample %d is not an integer (%v)", name, i, v)
		case img.Bool && v > 1:
			return valueErrorf("boolean image %s sample %d is %v", name, i, v)
		}
	}
	return nil
}

func sameShape(a, b *Image) bool {
	if len(a.Shape) != len(b.Shape) {
		return false
	}
	for i := range a.Shape {
		if a.Shape[i] != b.Shape[i] {
			return false
		}
	}
	return true
}
