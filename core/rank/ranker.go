// Package rank implements brute-force cosine similarity ranking over the
// embedding store. There is no incremental index: every query is a full
// O(numTracks * dim) scan, which is the intended trade-off at catalog
// scales of a few tens of thousands of vectors.
package rank

import (
	"math"
	"sort"

	"github.com/adalundhe/resona/core/embedding"
	"github.com/viterin/vek/vek32"
)

// Candidate pairs a catalog index with a similarity (or reweighted) score.
type Candidate struct {
	Index int
	Score float64
}

// Ranker scans the embedding store for the rows most similar to a query.
type Ranker struct {
	store *embedding.Store
}

func NewRanker(store *embedding.Store) *Ranker {
	return &Ranker{store: store}
}

// CosineSimilarity computes dot(a,b) / (||a||*||b||), defined as 0 when
// either norm is zero so degenerate all-zero vectors never divide by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	normA := math.Sqrt(float64(vek32.Dot(a, a)))
	normB := math.Sqrt(float64(vek32.Dot(b, b)))
	if normA == 0 || normB == 0 {
		return 0
	}

	return float64(vek32.Dot(a, b)) / (normA * normB)
}

// Rank scores every catalog row not in excluded against query and returns
// the topK candidates ordered by score descending. Ties are broken by
// ascending index, so identical inputs always produce identical output.
func (r *Ranker) Rank(query []float32, excluded map[int]struct{}, topK int) []Candidate {
	if topK <= 0 {
		return nil
	}

	count := r.store.Len()
	queryNorm := math.Sqrt(float64(vek32.Dot(query, query)))

	candidates := make([]Candidate, 0, count)
	for i := range count {
		if _, skip := excluded[i]; skip {
			continue
		}

		score := 0.0
		if queryNorm != 0 {
			row, err := r.store.VectorOf(i)
			if err != nil {
				continue
			}
			norm, _ := r.store.NormOf(i)
			if norm != 0 {
				score = float64(vek32.Dot(query, row)) / (queryNorm * norm)
			}
		}

		candidates = append(candidates, Candidate{Index: i, Score: score})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].Index < candidates[j].Index
	})

	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}
