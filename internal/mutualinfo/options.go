package mutualinfo

type opts struct {
	bitDepth    int
	sourceDepth int
	workers     int
}

// Option configures Estimate.
type Option func(o *opts)

func defaultOpts() opts {
	return opts{bitDepth: DefaultBitDepth, workers: 1}
}

// WithBitDepth sets the quantization depth; the estimator uses 2^depth levels.
// Ignored for boolean images, which always use two levels.
func WithBitDepth(depth int) Option {
	return func(o *opts) {
		o.bitDepth = depth
	}
}

// WithSourceBitDepth declares the scale the samples are expressed on when it
// differs from the quantization depth, e.g. 16 for 16-bit images binned at 8 bits.
func WithSourceBitDepth(depth int) Option {
	return func(o *opts) {
		o.sourceDepth = depth
	}
}

// WithWorkers sets how many goroutines count histogram levels. Zero and one both
// mean sequential counting.
func WithWorkers(n int) Option {
	return func(o *opts) {
		o.workers = n
	}
}
