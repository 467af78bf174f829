// Package popularity maps a raw popularity-like metric (playlist
// co-occurrence counts in the shipped snapshot) to its rank percentile over
// the whole catalog. The table is built once at startup and read-only
// afterward.
package popularity

import "sort"

// TableSize is the number of thresholds: one per integer percentile 0..100.
const TableSize = 101

// Table is an ordered sequence of 101 monotonically non-decreasing
// thresholds; Table[i] is the smallest value at or above the i-th
// percentile of the build input.
type Table []float64

// Build sorts a copy of values and samples it at each integer percentile:
// table[i] = sorted[floor(i/100 * (n-1))]. An empty input yields an
// all-zero table.
func Build(values []float64) Table {
	table := make(Table, TableSize)
	if len(values) == 0 {
		return table
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	for i := range TableSize {
		table[i] = sorted[i*(n-1)/100]
	}
	return table
}

// PercentileOf returns the smallest percentile i such that table[i] >= v,
// or 100 when v exceeds every threshold. Monotonically non-decreasing in v.
func (t Table) PercentileOf(v float64) int {
	i := sort.Search(len(t), func(i int) bool { return t[i] >= v })
	if i >= len(t) {
		return 100
	}
	return i
}
