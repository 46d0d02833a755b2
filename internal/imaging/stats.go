package imaging

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// IntensityStats summarizes the samples of one channel.
type IntensityStats struct {
	Channel  Channel `json:"channel"`
	BitDepth int     `json:"bit_depth"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Mean     float64 `json:"mean"`
	Median   float64 `json:"median"`
	StdDev   float64 `json:"std_dev"`

	// Distinct is the number of different sample values present.
	Distinct int `json:"distinct"`
}

// Summarize computes descriptive statistics over s.
func Summarize(s *Samples) (*IntensityStats, error) {
	data := stats.Float64Data(s.Image.Samples)

	mean, err := stats.Mean(data)
	if err != nil {
		return nil, errors.Wrap(err, "mean")
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil, errors.Wrap(err, "median")
	}
	sd, err := stats.StandardDeviation(data)
	if err != nil {
		return nil, errors.Wrap(err, "standard deviation")
	}
	lo, err := stats.Min(data)
	if err != nil {
		return nil, errors.Wrap(err, "min")
	}
	hi, err := stats.Max(data)
	if err != nil {
		return nil, errors.Wrap(err, "max")
	}

	distinct := make(map[float64]struct{})
	for _, v := range data {
		distinct[v] = struct{}{}
	}

	return &IntensityStats{
		Channel:  s.Channel,
		BitDepth: s.BitDepth,
		Count:    data.Len(),
		Min:      lo,
		Max:      hi,
		Mean:     mean,
		Median:   median,
		StdDev:   sd,
		Distinct: len(distinct),
	}, nil
}
