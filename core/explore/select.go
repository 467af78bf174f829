// Package explore turns a weighted candidate pool into the final ordered
// selection, either deterministically (top scores) or via
// temperature-controlled weighted sampling without replacement.
package explore

import (
	"math"
	"math/rand/v2"
	"sort"

	"github.com/adalundhe/resona/core/rank"
	"gonum.org/v1/gonum/floats"
)

// Temperature ramps linearly with exploration: T = 0.1 + exploration*2.0.
const (
	baseTemperature = 0.1
	temperatureSpan = 2.0
)

// Select returns up to n candidate indices. With exploration 0 the result
// is the top-n scores in descending order, stable and reproducible. With
// exploration > 0 candidates are drawn one at a time from a softmax
// distribution over their scores, without replacement. An empty pool
// returns an empty result, never an error.
//
// The RNG is request-local so concurrent requests stay independent; pass a
// seeded source for reproducible sampling, or nil for fresh entropy.
func Select(candidates []rank.Candidate, n int, exploration float64, rng *rand.Rand) []int {
	if len(candidates) == 0 || n <= 0 {
		return nil
	}

	if exploration <= 0 {
		return topN(candidates, n)
	}
	return sample(candidates, n, exploration, rng)
}

func topN(candidates []rank.Candidate, n int) []int {
	sorted := make([]rank.Candidate, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Index < sorted[j].Index
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	selected := make([]int, len(sorted))
	for i, c := range sorted {
		selected[i] = c.Index
	}
	return selected
}

// sample implements renormalize-then-draw weighted sampling without
// replacement. The pool uses swap-and-shrink removal, so k draws over m
// candidates cost O(k*m) with no reallocation.
func sample(candidates []rank.Candidate, n int, exploration float64, rng *rand.Rand) []int {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	temperature := baseTemperature + exploration*temperatureSpan

	maxScore := candidates[0].Score
	for _, c := range candidates[1:] {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}

	// Softmax weights with a max shift for numerical stability; the best
	// candidate always carries weight exp(0) = 1.
	indices := make([]int, len(candidates))
	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		indices[i] = c.Index
		weights[i] = math.Exp((c.Score - maxScore) / temperature)
	}

	draws := min(n, len(candidates))
	selected := make([]int, 0, draws)
	cum := make([]float64, len(candidates))

	for range draws {
		remaining := len(weights)
		floats.CumSum(cum[:remaining], weights)
		total := cum[remaining-1]

		var pos int
		if total > 0 {
			r := rng.Float64() * total
			pos = sort.SearchFloat64s(cum[:remaining], r)
			if pos >= remaining {
				pos = remaining - 1
			}
		} else {
			// Every remaining weight underflowed; fall back to uniform.
			pos = rng.IntN(remaining)
		}

		selected = append(selected, indices[pos])

		last := remaining - 1
		indices[pos], weights[pos] = indices[last], weights[last]
		indices, weights = indices[:last], weights[:last]
	}

	return selected
}
