package mutualinfo

// Bit depth limits. The joint distribution has up to L×L cells, so the number of
// levels is capped at 2^16.
const (
	DefaultBitDepth = 8
	MaxBitDepth     = 16

	// MaxSourceBitDepth bounds the scale samples may be expressed on.
	MaxSourceBitDepth = 32
)

// Quantizer maps raw samples onto one of Levels intensity bins.
//
// Samples are read on a 0..2^source-1 integer scale and binned into
// L = 2^depth equal-width bins:
//
//	bin(v) = min(floor(v * 2^depth / 2^source), L-1)
//
// computed in integer arithmetic. When source == depth every sample lands in the
// bin of the same index, which is the same as normalizing by 2^depth-1 into
// [0,1] and splitting that range into L closed-open bins with the last bin
// closed. Samples beyond the source range saturate into the top bin; 16-bit data
// binned at depth 8 is shifted right by 8.
type Quantizer struct {
	// Levels is the number of bins, L.
	Levels int

	shift int
	limit float64
}

// NewQuantizer returns the quantizer for the given bin depth and source depth.
// A source depth of zero means the samples are already on the bin scale.
func NewQuantizer(depth, source int) (Quantizer, error) {
	if depth < 1 || depth > MaxBitDepth {
		return Quantizer{}, parameterErrorf("bit depth %d outside [1, %d]", depth, MaxBitDepth)
	}
	if source == 0 {
		source = depth
	}
	if source < 1 || source > MaxSourceBitDepth {
		return Quantizer{}, parameterErrorf("source bit depth %d outside [1, %d]", source, MaxSourceBitDepth)
	}
	return Quantizer{
		Levels: 1 << depth,
		shift:  source - depth,
		limit:  float64(uint64(1) << source),
	}, nil
}

// BoolQuantizer bins boolean samples into two levels.
func BoolQuantizer() Quantizer {
	return Quantizer{Levels: 2, limit: 2}
}

// Level returns the bin index of a validated sample.
func (q Quantizer) Level(v float64) uint32 {
	top := uint32(q.Levels - 1)
	if v >= q.limit {
		return top
	}
	u := uint64(v)
	if q.shift >= 0 {
		u >>= uint(q.shift)
	} else {
		u <<= uint(-q.shift)
	}
	if u > uint64(top) {
		return top
	}
	return uint32(u)
}

// Quantize returns the bin index of every sample of x.
func Quantize(x *Image, q Quantizer) []uint32 {
	levels := make([]uint32, len(x.Samples))
	for i, v := range x.Samples {
		levels[i] = q.Level(v)
	}
	return levels
}
