// Package mutualinfo estimates the mutual information between two equally
// shaped images from their intensity histograms.
//
// The estimator is a single-pass, deterministic pipeline:
//
//  1. Validation: both images must share a shape and hold non-negative integer
//     samples (or both be boolean). The bit depth must lie in [1, MaxBitDepth].
//     Violations are reported before any counting as *InvalidInputError values
//     matching ErrInvalidShape, ErrInvalidValue or ErrInvalidParameter.
//
//  2. Quantization: samples are mapped onto L = 2^bitDepth equal-width bins
//     (two bins for boolean images). See Quantizer for the exact rule.
//
//  3. Histograms: marginal distributions pa and pb of length L, and the L×L
//     joint distribution pab, each normalized by the sample count N.
//
//  4. Summation:
//
//     I(A;B) = Σ pab[i][j] · log2(pab[i][j] / (pa[i]·pb[j]))
//
//     over cells where both pab[i][j] and pa[i]·pb[j] exceed Epsilon (1e-12).
//     All other cells contribute exactly zero.
//
// The result is in bits. Compute(x, x, d) equals the entropy of x binned at
// depth d, up to floating-point rounding, and a constant image carries zero
// information about anything.
//
// # Usage
//
//	a := mutualinfo.FromMatrix([][]int{{0, 10}, {200, 255}})
//	b := mutualinfo.FromMatrix([][]int{{0, 12}, {190, 250}})
//	mi, err := mutualinfo.Compute(a, b, 8)
//
// Estimate returns the distributions and entropies alongside the estimate and
// accepts options for source bit depth and parallel counting.
package mutualinfo
