package mutualinfo

import (
	"slices"
	"sort"

	"github.com/kzahedi/goent/discrete"
	"golang.org/x/sync/errgroup"
)

// Distribution is a marginal probability distribution over L intensity levels.
type Distribution []float64

// Sum returns the total probability mass, 1 up to rounding.
func (d Distribution) Sum() float64 {
	var s float64
	for _, p := range d {
		s += p
	}
	return s
}

// Entropy returns the Shannon entropy of the distribution in bits.
func (d Distribution) Entropy() float64 {
	return discrete.EntropyBase2(d)
}

// Cell is one non-zero entry of a joint distribution.
type Cell struct {
	I int     `json:"i"`
	J int     `json:"j"`
	P float64 `json:"p"`
}

// JointDistribution is an L×L joint probability matrix. Only non-zero cells are
// stored, in row-major order, so memory is bounded by the sample count rather
// than by L².
type JointDistribution struct {
	levels int
	cells  []Cell
}

// Levels returns L.
func (j *JointDistribution) Levels() int {
	return j.levels
}

// Cells returns the non-zero cells in row-major order.
func (j *JointDistribution) Cells() []Cell {
	return j.cells
}

// At returns the probability of cell (i, k).
func (j *JointDistribution) At(i, k int) float64 {
	n := sort.Search(len(j.cells), func(x int) bool {
		c := j.cells[x]
		return c.I > i || (c.I == i && c.J >= k)
	})
	if n < len(j.cells) && j.cells[n].I == i && j.cells[n].J == k {
		return j.cells[n].P
	}
	return 0
}

// Sum returns the total probability mass, 1 up to rounding.
func (j *JointDistribution) Sum() float64 {
	var s float64
	for _, c := range j.cells {
		s += c.P
	}
	return s
}

// Dense expands the distribution into an L×L matrix. Intended for small L.
func (j *JointDistribution) Dense() [][]float64 {
	m := make([][]float64, j.levels)
	for i := range m {
		m[i] = make([]float64, j.levels)
	}
	for _, c := range j.cells {
		m[c.I][c.J] = c.P
	}
	return m
}

// Marginal counts quantized levels into L bins and normalizes by the sample count.
func Marginal(levels []uint32, L int) Distribution {
	return normalize(countLevels(levels, L, 1), len(levels))
}

// Joint builds the joint distribution of paired quantized levels. a and b must
// have the same length.
func Joint(a, b []uint32, L int) *JointDistribution {
	codes := make([]uint64, len(a))
	for k := range a {
		codes[k] = uint64(a[k])*uint64(L) + uint64(b[k])
	}
	slices.Sort(codes)

	n := float64(len(codes))
	joint := &JointDistribution{levels: L}
	for start := 0; start < len(codes); {
		end := start + 1
		for end < len(codes) && codes[end] == codes[start] {
			end++
		}
		joint.cells = append(joint.cells, Cell{
			I: int(codes[start] / uint64(L)),
			J: int(codes[start] % uint64(L)),
			P: float64(end-start) / n,
		})
		start = end
	}
	return joint
}

// countLevels builds a histogram of L bins. With more than one worker the levels
// are split into contiguous chunks counted concurrently; integer counts merge
// exactly, so the result does not depend on the worker count.
func countLevels(levels []uint32, L, workers int) []int {
	if workers <= 1 || len(levels) < workers*minChunk {
		counts := make([]int, L)
		for _, v := range levels {
			counts[v]++
		}
		return counts
	}

	partial := make([][]int, workers)
	chunk := (len(levels) + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, len(levels))
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			counts := make([]int, L)
			for _, v := range levels[lo:hi] {
				counts[v]++
			}
			partial[w] = counts
			return nil
		})
	}
	// Workers only count into their own slice and never return an error.
	g.Wait()

	counts := make([]int, L)
	for _, p := range partial {
		for i, c := range p {
			counts[i] += c
		}
	}
	return counts
}

const minChunk = 4096

func normalize(counts []int, n int) Distribution {
	d := make(Distribution, len(counts))
	for i, c := range counts {
		d[i] = float64(c) / float64(n)
	}
	return d
}
