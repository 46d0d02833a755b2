package imaging

import (
	"sort"

	"github.com/ironsheep/image-mi-mcp/internal/mutualinfo"
)

// EntropyResult reports the Shannon entropy of one channel.
type EntropyResult struct {
	// Entropy is in bits.
	Entropy  float64 `json:"entropy"`
	Channel  Channel `json:"channel"`
	BitDepth int     `json:"bit_depth"`
	Levels   int     `json:"levels"`
	Samples  int     `json:"samples"`
}

// ChannelEntropy computes the entropy of s binned at bitDepth, using the same
// binning as the mutual information estimator.
func ChannelEntropy(s *Samples, bitDepth, workers int) (*EntropyResult, error) {
	d, err := mutualinfo.MarginalOf(s.Image,
		mutualinfo.WithBitDepth(bitDepth),
		mutualinfo.WithSourceBitDepth(SourceDepth(s)),
		mutualinfo.WithWorkers(workers),
	)
	if err != nil {
		return nil, err
	}
	return &EntropyResult{
		Entropy:  d.Entropy(),
		Channel:  s.Channel,
		BitDepth: bitDepth,
		Levels:   len(d),
		Samples:  s.Image.Len(),
	}, nil
}

// HistogramBin is one level of a marginal distribution.
type HistogramBin struct {
	Level       int     `json:"level"`
	Probability float64 `json:"probability"`
}

// HistogramResult is the marginal distribution of one channel.
type HistogramResult struct {
	Channel  Channel        `json:"channel"`
	BitDepth int            `json:"bit_depth"`
	Levels   int            `json:"levels"`
	Samples  int            `json:"samples"`
	Bins     []HistogramBin `json:"bins"`
}

// ChannelHistogram returns the marginal distribution of s binned at bitDepth.
// Empty bins are omitted unless includeZero is set.
func ChannelHistogram(s *Samples, bitDepth int, includeZero bool) (*HistogramResult, error) {
	d, err := mutualinfo.MarginalOf(s.Image,
		mutualinfo.WithBitDepth(bitDepth),
		mutualinfo.WithSourceBitDepth(SourceDepth(s)),
	)
	if err != nil {
		return nil, err
	}

	res := &HistogramResult{
		Channel:  s.Channel,
		BitDepth: bitDepth,
		Levels:   len(d),
		Samples:  s.Image.Len(),
		Bins:     []HistogramBin{},
	}
	for i, p := range d {
		if p == 0 && !includeZero {
			continue
		}
		res.Bins = append(res.Bins, HistogramBin{Level: i, Probability: p})
	}
	return res, nil
}

// JointHistogramResult lists the most probable cells of a joint distribution.
type JointHistogramResult struct {
	Channel  Channel `json:"channel"`
	BitDepth int     `json:"bit_depth"`
	Levels   int     `json:"levels"`
	Samples  int     `json:"samples"`

	// NonZeroCells is the total number of occupied cells, of which at most
	// maxCells are listed in Cells, most probable first.
	NonZeroCells int               `json:"non_zero_cells"`
	Cells        []mutualinfo.Cell `json:"cells"`
}

// JointHistogram returns the joint distribution of two channels of equal size.
func JointHistogram(sa, sb *Samples, bitDepth, maxCells int) (*JointHistogramResult, error) {
	ca, cb := *sa, *sb
	sa, sb = &ca, &cb
	source := alignDepths(sa, sb)

	res, err := mutualinfo.Estimate(sa.Image, sb.Image,
		mutualinfo.WithBitDepth(bitDepth),
		mutualinfo.WithSourceBitDepth(source),
	)
	if err != nil {
		return nil, err
	}

	cells := append([]mutualinfo.Cell(nil), res.Joint.Cells()...)
	sort.SliceStable(cells, func(i, j int) bool {
		return cells[i].P > cells[j].P
	})
	total := len(cells)
	if maxCells > 0 && len(cells) > maxCells {
		cells = cells[:maxCells]
	}

	return &JointHistogramResult{
		Channel:      sa.Channel,
		BitDepth:     bitDepth,
		Levels:       res.Levels,
		Samples:      res.Samples,
		NonZeroCells: total,
		Cells:        cells,
	}, nil
}
