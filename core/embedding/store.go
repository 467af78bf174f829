// Package embedding owns the flat track embedding matrix and provides
// vector lookup and centroid computation over it. The matrix is built once
// at startup and is read-only afterward, so a single Store can be shared
// across concurrent requests without locking.
package embedding

import (
	"errors"
	"fmt"
	"math"

	"github.com/viterin/vek/vek32"
)

var (
	// ErrOutOfRange indicates an index outside [0, Len()).
	ErrOutOfRange = errors.New("embedding: index out of range")

	// ErrEmptyInput indicates a centroid was requested over zero vectors.
	ErrEmptyInput = errors.New("embedding: empty input")
)

// Store holds a dense row-major float32 matrix, one fixed-length row per
// track, index-aligned with the catalog. Row norms are precomputed so the
// ranker never recomputes them during a scan.
type Store struct {
	vectors []float32
	norms   []float64
	dim     int
	count   int
}

// NewStore wraps an already-materialized flat matrix. The matrix length must
// be an exact multiple of dim.
func NewStore(vectors []float32, dim int) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("embedding: dimensions must be positive, got %d", dim)
	}
	if len(vectors)%dim != 0 {
		return nil, fmt.Errorf("embedding: matrix length %d is not a multiple of dimensions %d", len(vectors), dim)
	}

	count := len(vectors) / dim
	norms := make([]float64, count)
	for i := range count {
		row := vectors[i*dim : (i+1)*dim]
		norms[i] = math.Sqrt(float64(vek32.Dot(row, row)))
	}

	return &Store{
		vectors: vectors,
		norms:   norms,
		dim:     dim,
		count:   count,
	}, nil
}

// Len returns the number of rows in the matrix.
func (s *Store) Len() int { return s.count }

// Dim returns the embedding dimensionality.
func (s *Store) Dim() int { return s.dim }

// VectorOf returns a borrowed view of row i. Callers must not mutate it.
func (s *Store) VectorOf(i int) ([]float32, error) {
	if i < 0 || i >= s.count {
		return nil, fmt.Errorf("%w: %d (have %d rows)", ErrOutOfRange, i, s.count)
	}
	return s.vectors[i*s.dim : (i+1)*s.dim], nil
}

// NormOf returns the precomputed Euclidean norm of row i. The bounds
// contract matches VectorOf.
func (s *Store) NormOf(i int) (float64, error) {
	if i < 0 || i >= s.count {
		return 0, fmt.Errorf("%w: %d (have %d rows)", ErrOutOfRange, i, s.count)
	}
	return s.norms[i], nil
}

// Centroid computes the per-dimension arithmetic mean of the given rows,
// returning a newly allocated vector.
func (s *Store) Centroid(indices []int) ([]float32, error) {
	if len(indices) == 0 {
		return nil, ErrEmptyInput
	}

	sums := make([]float32, s.dim)
	for _, i := range indices {
		row, err := s.VectorOf(i)
		if err != nil {
			return nil, err
		}
		vek32.Add_Inplace(sums, row)
	}

	vek32.MulNumber_Inplace(sums, 1.0/float32(len(indices)))
	return sums, nil
}
