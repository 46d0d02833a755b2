package imaging

import (
	"fmt"
	"image"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

// CompareOptions controls how two images are compared.
type CompareOptions struct {
	// Channel selects the intensity compared. Defaults to ChannelGray.
	Channel Channel

	// BitDepth is the quantization depth passed to the estimator.
	BitDepth int

	// SourceBitDepth overrides the scale of the deeper image, for images that
	// store fewer significant bits than their container (e.g. 12-bit data in a
	// 16-bit PNG). When both images share a native depth it applies to both.
	// Zero uses the native depth.
	SourceBitDepth int

	// Workers is the number of goroutines used for histogram counting.
	Workers int
}

// ComparisonResult reports how much information two images share.
type ComparisonResult struct {
	// MutualInformation is I(A;B) in bits.
	MutualInformation float64 `json:"mutual_information"`

	// NormalizedMI is 2·I(A;B) / (H(A) + H(B)), between 0 and 1.
	NormalizedMI float64 `json:"normalized_mi"`

	EntropyA float64 `json:"entropy_a"`
	EntropyB float64 `json:"entropy_b"`

	// Correlation is the Pearson correlation of the raw samples. Zero when
	// either image is constant.
	Correlation float64 `json:"correlation"`

	Channel  Channel `json:"channel"`
	BitDepth int     `json:"bit_depth"`
	Levels   int     `json:"levels"`
	Samples  int     `json:"samples"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

// CompareImages estimates the mutual information between the same channel of
// two images, each optionally restricted to a region. The compared areas must
// have identical dimensions.
func CompareImages(a, b image.Image, ra, rb *Region, opts CompareOptions) (*ComparisonResult, error) {
	if opts.Channel == "" {
		opts.Channel = ChannelGray
	}

	sa, err := ToSamples(a, opts.Channel, ra)
	if err != nil {
		return nil, err
	}
	sb, err := ToSamples(b, opts.Channel, rb)
	if err != nil {
		return nil, err
	}
	return CompareSamples(sa, sb, opts)
}

// CompareRegions compares two equally sized regions of one image.
func CompareRegions(img image.Image, r1, r2 Region, opts CompareOptions) (*ComparisonResult, error) {
	return CompareImages(img, img, &r1, &r2, opts)
}

// CompareSamples estimates the mutual information between two extracted
// channels. When the samples are on different scales the deeper one is shifted
// down to the shallower scale first.
func CompareSamples(sa, sb *Samples, opts CompareOptions) (*ComparisonResult, error) {
	ca, cb := *sa, *sb
	sa, sb = &ca, &cb

	if opts.SourceBitDepth != 0 {
		if err := overrideDepth(sa, sb, opts.SourceBitDepth); err != nil {
			return nil, err
		}
	}
	source := alignDepths(sa, sb)

	res, err := mutualinfo.Estimate(sa.Image, sb.Image,
		mutualinfo.WithBitDepth(opts.BitDepth),
		mutualinfo.WithSourceBitDepth(source),
		mutualinfo.WithWorkers(opts.Workers),
	)
	if err != nil {
		return nil, err
	}

	corr := stat.Correlation(sa.Image.Samples, sb.Image.Samples, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		corr = 0
	}

	return &ComparisonResult{
		MutualInformation: res.MutualInformation,
		NormalizedMI:      res.NormalizedMI,
		EntropyA:          res.EntropyA,
		EntropyB:          res.EntropyB,
		Correlation:       corr,
		Channel:           sa.Channel,
		BitDepth:          opts.BitDepth,
		Levels:            res.Levels,
		Samples:           res.Samples,
		Width:             sa.Width,
		Height:            sa.Height,
	}, nil
}

// SourceDepth returns the source bit depth to declare to the estimator for
// samples extracted from an image. Boolean samples need none.
func SourceDepth(s *Samples) int {
	if s.Image.Bool {
		return 0
	}
	return s.BitDepth
}

// overrideDepth declares that the samples of the deeper image (or of both, when
// their depths are equal) are on a depth-bit scale. Boolean samples have no
// scale to override.
func overrideDepth(sa, sb *Samples, depth int) error {
	if depth < 1 || depth > mutualinfo.MaxSourceBitDepth {
		return &mutualinfo.InvalidInputError{
			Kind:   mutualinfo.ErrInvalidParameter,
			Detail: fmt.Sprintf("source bit depth %d outside [1, %d]", depth, mutualinfo.MaxSourceBitDepth),
		}
	}
	if sa.Image.Bool || sb.Image.Bool {
		return nil
	}
	deeper := max(sa.BitDepth, sb.BitDepth)
	if sa.BitDepth == deeper {
		sa.BitDepth = depth
	}
	if sb.BitDepth == deeper {
		sb.BitDepth = depth
	}
	return nil
}

// alignDepths brings both sample sets onto the same scale and returns it.
func alignDepths(sa, sb *Samples) int {
	if sa.Image.Bool || sb.Image.Bool {
		return 0
	}
	switch {
	case sa.BitDepth > sb.BitDepth:
		shiftDown(sa, sb.BitDepth)
	case sb.BitDepth > sa.BitDepth:
		shiftDown(sb, sa.BitDepth)
	}
	return sa.BitDepth
}

func shiftDown(s *Samples, depth int) {
	div := math.Exp2(float64(s.BitDepth - depth))
	samples := make([]float64, len(s.Image.Samples))
	for i, v := range s.Image.Samples {
		samples[i] = math.Floor(v / div)
	}
	s.Image = &mutualinfo.Image{Shape: s.Image.Shape, Samples: samples}
	s.BitDepth = depth
}
