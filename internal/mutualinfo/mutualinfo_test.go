package mutualinfo

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// randomImage returns a rows×cols image of uniformly random levels below max.
func randomImage(rng *rand.Rand, rows, cols, max int) *Image {
	data := make([]int, rows*cols)
	for i := range data {
		data[i] = rng.Intn(max)
	}
	return FromSlice([]int{rows, cols}, data)
}

// gradientImage returns an image whose samples step through 0..255.
func gradientImage(rows, cols int) *Image {
	data := make([]uint8, rows*cols)
	for i := range data {
		data[i] = uint8(i % 256)
	}
	return FromSlice([]int{rows, cols}, data)
}

func TestCompute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Image
		bitDepth int
		want     error
	}{
		{
			"shape mismatch",
			FromMatrix([][]int{{1, 2}, {3, 4}}),
			FromMatrix([][]int{{1, 2}}),
			8,
			ErrInvalidShape,
		},
		{
			"same size different shape",
			FromSlice([]int{4}, []int{1, 2, 3, 4}),
			FromMatrix([][]int{{1, 2}, {3, 4}}),
			8,
			ErrInvalidShape,
		},
		{
			"ragged matrix",
			FromMatrix([][]int{{1, 2}, {3}}),
			FromMatrix([][]int{{1, 2}, {3}}),
			8,
			ErrInvalidShape,
		},
		{
			"empty image",
			FromMatrix([][]int{}),
			FromMatrix([][]int{}),
			8,
			ErrInvalidShape,
		},
		{
			"nil image",
			nil,
			FromMatrix([][]int{{1}}),
			8,
			ErrInvalidShape,
		},
		{
			"negative sample",
			FromMatrix([][]int{{-1, 2}}),
			FromMatrix([][]int{{1, 2}}),
			8,
			ErrInvalidValue,
		},
		{
			"non-integer sample",
			FromMatrix([][]float64{{1.5, 2}}),
			FromMatrix([][]float64{{1, 2}}),
			8,
			ErrInvalidValue,
		},
		{
			"NaN sample",
			FromMatrix([][]float64{{1, 2}}),
			FromMatrix([][]float64{{math.NaN(), 2}}),
			8,
			ErrInvalidValue,
		},
		{
			"boolean paired with integer",
			FromBoolMatrix([][]bool{{true, false}}),
			FromMatrix([][]int{{1, 0}}),
			8,
			ErrInvalidValue,
		},
		{
			"zero bit depth",
			FromMatrix([][]int{{1, 2}}),
			FromMatrix([][]int{{1, 2}}),
			0,
			ErrInvalidParameter,
		},
		{
			"negative bit depth",
			FromMatrix([][]int{{1, 2}}),
			FromMatrix([][]int{{1, 2}}),
			-3,
			ErrInvalidParameter,
		},
		{
			"bit depth too large",
			FromMatrix([][]int{{1, 2}}),
			FromMatrix([][]int{{1, 2}}),
			MaxBitDepth + 1,
			ErrInvalidParameter,
		},
		{
			"boolean still validates bit depth",
			FromBoolMatrix([][]bool{{true, false}}),
			FromBoolMatrix([][]bool{{true, false}}),
			0,
			ErrInvalidParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)

			mi, err := Compute(tt.a, tt.b, tt.bitDepth)
			r.Error(err)
			r.Zero(mi)
			r.True(errors.Is(err, tt.want), "got %v", err)
			r.True(errors.Is(err, ErrInvalidInput))

			var iie *InvalidInputError
			r.True(errors.As(err, &iie))
			r.Equal(tt.want, iie.Kind)
		})
	}
}

func TestCompute_BooleanPath(t *testing.T) {
	r := require.New(t)

	x := FromBoolMatrix([][]bool{{true, false}, {false, true}})

	res, err := Estimate(x, x, WithBitDepth(8))
	r.NoError(err)
	r.Equal(2, res.Levels)
	r.Equal(1.0, res.MutualInformation)

	h, err := Entropy(x, 8)
	r.NoError(err)
	r.InDelta(1.0, h, 1e-12)
}

func TestCompute_ConstantImageIsZero(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	t.Run("constant a", func(t *testing.T) {
		a := FromSlice([]int{32, 32}, make([]int, 32*32))
		b := randomImage(rng, 32, 32, 256)

		mi, err := ComputeDefault(a, b)
		require.NoError(t, err)
		require.Equal(t, 0.0, mi)
	})

	t.Run("constant b", func(t *testing.T) {
		data := make([]int, 16*16)
		for i := range data {
			data[i] = 200
		}
		a := randomImage(rng, 16, 16, 256)
		b := FromSlice([]int{16, 16}, data)

		mi, err := ComputeDefault(a, b)
		require.NoError(t, err)
		require.Equal(t, 0.0, mi)
	})
}

func TestCompute_Symmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for _, depth := range []int{1, 4, 8, 12} {
		a := randomImage(rng, 20, 30, 1<<depth)
		b := randomImage(rng, 20, 30, 1<<depth)

		ab, err := Compute(a, b, depth)
		require.NoError(t, err)
		ba, err := Compute(b, a, depth)
		require.NoError(t, err)

		require.InDelta(t, ab, ba, 1e-9, "depth %d", depth)
	}
}

func TestCompute_SelfInformationIsEntropy(t *testing.T) {
	rng := rand.New(rand.NewSource(2))

	images := map[string]*Image{
		"random":   randomImage(rng, 64, 64, 256),
		"gradient": gradientImage(16, 40),
		"sparse":   FromMatrix([][]int{{0, 0, 0, 255}, {0, 0, 17, 0}}),
		"binary":   FromMatrix([][]int{{0, 1}, {1, 0}}),
	}

	for name, x := range images {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			mi, err := ComputeDefault(x, x)
			r.NoError(err)
			h, err := Entropy(x, DefaultBitDepth)
			r.NoError(err)

			r.InEpsilon(h, mi, 1e-6)
		})
	}
}

func TestCompute_Bounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 20; i++ {
		a := randomImage(rng, 10, 10, 8)
		// b depends partly on a so the estimate is not trivially near zero.
		b := FromSlice(a.Shape, a.Samples)
		for k := range b.Samples {
			if rng.Intn(3) == 0 {
				b.Samples[k] = float64(rng.Intn(8))
			}
		}

		res, err := Estimate(a, b, WithBitDepth(3))
		require.NoError(t, err)

		const slack = 1e-9
		require.GreaterOrEqual(t, res.MutualInformation, -slack)
		require.LessOrEqual(t, res.MutualInformation, math.Min(res.EntropyA, res.EntropyB)+slack)
		require.GreaterOrEqual(t, res.NormalizedMI, -slack)
		require.LessOrEqual(t, res.NormalizedMI, 1+slack)
	}
}

func TestCompute_IndependentImagesApproachZero(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	small, err := Compute(randomImage(rng, 20, 20, 16), randomImage(rng, 20, 20, 16), 4)
	require.NoError(t, err)

	large, err := Compute(randomImage(rng, 500, 400, 16), randomImage(rng, 500, 400, 16), 4)
	require.NoError(t, err)

	require.Less(t, large, small)
	require.Less(t, large, 0.01)
}

func TestCompute_IdenticalUpToRelabeling(t *testing.T) {
	r := require.New(t)

	// b is a permutation of a's levels, so it is fully determined by a.
	a := FromMatrix([][]int{{0, 1, 2, 3}, {3, 2, 1, 0}})
	b := FromMatrix([][]int{{3, 0, 1, 2}, {2, 1, 0, 3}})

	mi, err := Compute(a, b, 2)
	r.NoError(err)
	r.InDelta(2.0, mi, 1e-12)
}

func TestEstimate_Distributions(t *testing.T) {
	r := require.New(t)

	a := FromMatrix([][]int{{0, 0}, {1, 3}})
	b := FromMatrix([][]int{{0, 1}, {1, 3}})

	res, err := Estimate(a, b, WithBitDepth(2))
	r.NoError(err)

	r.Equal(4, res.Levels)
	r.Equal(4, res.Samples)
	r.Equal(Distribution{0.5, 0.25, 0, 0.25}, res.MarginalA)
	r.Equal(Distribution{0.25, 0.5, 0, 0.25}, res.MarginalB)
	r.InDelta(1.0, res.MarginalA.Sum(), 1e-12)
	r.InDelta(1.0, res.Joint.Sum(), 1e-12)

	r.Equal([][]float64{
		{0.25, 0.25, 0, 0},
		{0, 0.25, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0.25},
	}, res.Joint.Dense())

	// (0,0) and (1,1) give 0.25 each, (0,1) gives 0, (3,3) gives 0.5.
	r.InDelta(1.0, res.MutualInformation, 1e-12)
}

func TestEstimate_SourceBitDepth(t *testing.T) {
	r := require.New(t)

	// 16-bit samples binned at 8 bits land in bin v>>8.
	a := FromSlice([]int{4}, []int{0, 255, 256, 65535})
	res, err := Estimate(a, a, WithBitDepth(8), WithSourceBitDepth(16))
	r.NoError(err)

	r.Equal(256, res.Levels)
	r.Equal(0.5, res.MarginalA[0])
	r.Equal(0.25, res.MarginalA[1])
	r.Equal(0.25, res.MarginalA[255])

	_, err = Estimate(a, a, WithSourceBitDepth(MaxSourceBitDepth+1))
	r.True(errors.Is(err, ErrInvalidParameter))
}

func TestEstimate_WorkersMatchSequential(t *testing.T) {
	r := require.New(t)
	rng := rand.New(rand.NewSource(5))

	a := randomImage(rng, 300, 200, 256)
	b := randomImage(rng, 300, 200, 256)

	seq, err := Estimate(a, b)
	r.NoError(err)
	par, err := Estimate(a, b, WithWorkers(4))
	r.NoError(err)

	r.Equal(seq.MarginalA, par.MarginalA)
	r.Equal(seq.MarginalB, par.MarginalB)
	r.Equal(seq.MutualInformation, par.MutualInformation)

	_, err = Estimate(a, b, WithWorkers(-1))
	r.True(errors.Is(err, ErrInvalidParameter))
}

func TestEntropy(t *testing.T) {
	tests := []struct {
		name  string
		x     *Image
		depth int
		want  float64
	}{
		{"constant", FromMatrix([][]int{{5, 5}, {5, 5}}), 8, 0},
		{"two equal halves", FromMatrix([][]int{{0, 0}, {9, 9}}), 8, 1},
		{"four levels", FromMatrix([][]int{{0, 1}, {2, 3}}), 8, 2},
		{"saturated into top bin", FromMatrix([][]int{{1, 4}, {5, 6}}), 2, 0.8112781244591328},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := Entropy(tt.x, tt.depth)
			require.NoError(t, err)
			require.InDelta(t, tt.want, h, 1e-12)
		})
	}

	_, err := Entropy(FromMatrix([][]int{{-1}}), 8)
	require.True(t, errors.Is(err, ErrInvalidValue))
}
