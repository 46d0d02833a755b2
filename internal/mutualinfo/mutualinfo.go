package mutualinfo

import (
	"math"
)

// Epsilon is the probability below which a joint cell, or the product of its
// marginals, is treated as zero. Screening on it implements 0·log2(0) = 0 and
// keeps the summation free of NaN and Inf.
const Epsilon = 1e-12

// Result holds the mutual information estimate together with the distributions
// it was computed from.
type Result struct {
	// MutualInformation is I(A;B) in bits.
	MutualInformation float64 `json:"mutual_information"`

	// NormalizedMI is 2·I(A;B) / (H(A) + H(B)), in [0, 1]. Zero when both
	// images are constant.
	NormalizedMI float64 `json:"normalized_mi"`

	// EntropyA and EntropyB are the marginal entropies in bits.
	EntropyA float64 `json:"entropy_a"`
	EntropyB float64 `json:"entropy_b"`

	// Levels is the number of quantization bins L.
	Levels int `json:"levels"`

	// Samples is the number of paired observations N.
	Samples int `json:"samples"`

	MarginalA Distribution       `json:"-"`
	MarginalB Distribution       `json:"-"`
	Joint     *JointDistribution `json:"-"`
}

// Compute returns the mutual information in bits between two equally shaped
// images, binned at the given bit depth.
//
// It fails with an *InvalidInputError when the shapes differ, a sample is
// negative or not an integer, or bitDepth is outside [1, MaxBitDepth]. Boolean
// images are binned into two levels whatever bitDepth is.
func Compute(a, b *Image, bitDepth int) (float64, error) {
	res, err := Estimate(a, b, WithBitDepth(bitDepth))
	if err != nil {
		return 0, err
	}
	return res.MutualInformation, nil
}

// ComputeDefault is Compute at DefaultBitDepth.
func ComputeDefault(a, b *Image) (float64, error) {
	return Compute(a, b, DefaultBitDepth)
}

// Estimate runs the full pipeline: validation, quantization, marginal and joint
// histograms, and the screened summation.
func Estimate(a, b *Image, options ...Option) (*Result, error) {
	o := defaultOpts()
	for _, opt := range options {
		opt(&o)
	}

	if err := validatePair(a, b); err != nil {
		return nil, err
	}
	q, err := quantizerFor(a, o)
	if err != nil {
		return nil, err
	}

	la := Quantize(a, q)
	lb := Quantize(b, q)

	n := len(la)
	pa := normalize(countLevels(la, q.Levels, o.workers), n)
	pb := normalize(countLevels(lb, q.Levels, o.workers), n)
	pab := Joint(la, lb, q.Levels)

	res := &Result{
		MutualInformation: sum(pa, pb, pab),
		EntropyA:          pa.Entropy(),
		EntropyB:          pb.Entropy(),
		Levels:            q.Levels,
		Samples:           n,
		MarginalA:         pa,
		MarginalB:         pb,
		Joint:             pab,
	}
	if h := res.EntropyA + res.EntropyB; h > 0 {
		res.NormalizedMI = 2 * res.MutualInformation / h
	}
	return res, nil
}

// Entropy returns the Shannon entropy of x in bits, using the same binning as
// Compute so that Compute(x, x, depth) approximates Entropy(x, depth).
func Entropy(x *Image, bitDepth int) (float64, error) {
	d, err := MarginalOf(x, WithBitDepth(bitDepth))
	if err != nil {
		return 0, err
	}
	return d.Entropy(), nil
}

// MarginalOf validates x and returns its marginal distribution.
func MarginalOf(x *Image, options ...Option) (Distribution, error) {
	o := defaultOpts()
	for _, opt := range options {
		opt(&o)
	}

	if err := x.validateShape("x"); err != nil {
		return nil, err
	}
	if err := x.validateValues("x"); err != nil {
		return nil, err
	}
	q, err := quantizerFor(x, o)
	if err != nil {
		return nil, err
	}
	levels := Quantize(x, q)
	return normalize(countLevels(levels, q.Levels, o.workers), len(levels)), nil
}

func validatePair(a, b *Image) error {
	if err := a.validateShape("a"); err != nil {
		return err
	}
	if err := b.validateShape("b"); err != nil {
		return err
	}
	if !sameShape(a, b) {
		return shapeErrorf("shapes differ: %s vs %s", a, b)
	}
	if err := a.validateValues("a"); err != nil {
		return err
	}
	if err := b.validateValues("b"); err != nil {
		return err
	}
	if a.Bool != b.Bool {
		return valueErrorf("cannot pair a boolean image with an integer image")
	}
	return nil
}

// quantizerFor validates the options and picks the quantizer for x. The bit
// depth is checked even for boolean images.
func quantizerFor(x *Image, o opts) (Quantizer, error) {
	if o.workers < 0 {
		return Quantizer{}, parameterErrorf("worker count %d is negative", o.workers)
	}
	q, err := NewQuantizer(o.bitDepth, o.sourceDepth)
	if err != nil {
		return Quantizer{}, err
	}
	if x.Bool {
		return BoolQuantizer(), nil
	}
	return q, nil
}

// sum evaluates Σ pab·log2(pab / (pa·pb)) over the joint cells in row-major
// order, skipping cells where either pab or pa·pb is at or below Epsilon.
// Cells absent from the sparse joint have pab = 0 and would be skipped anyway.
func sum(pa, pb Distribution, pab *JointDistribution) float64 {
	var mi float64
	for _, c := range pab.cells {
		papb := pa[c.I] * pb[c.J]
		if papb > Epsilon && c.P > Epsilon {
			mi += c.P * math.Log2(c.P/papb)
		}
	}
	return mi
}
