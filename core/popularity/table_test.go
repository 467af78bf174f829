package popularity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Monotone(t *testing.T) {
	table := Build([]float64{42, 7, 199, 3, 88, 12, 0, 56})

	require.Len(t, table, TableSize)
	for i := 1; i < len(table); i++ {
		assert.LessOrEqual(t, table[i-1], table[i], "threshold %d", i)
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	table := Build(nil)
	require.Len(t, table, TableSize)
	for _, v := range table {
		assert.Zero(t, v)
	}
}

func TestPercentileOf_RoundTrip(t *testing.T) {
	values := make([]float64, 100)
	for i := range values {
		values[i] = float64(i + 1)
	}
	table := Build(values)

	assert.Equal(t, 0, table.PercentileOf(1))
	assert.Equal(t, 100, table.PercentileOf(100))
}

func TestPercentileOf_AboveAllThresholds(t *testing.T) {
	table := Build([]float64{1, 2, 3})
	assert.Equal(t, 100, table.PercentileOf(1e9))
}

func TestPercentileOf_MonotoneInValue(t *testing.T) {
	table := Build([]float64{5, 17, 200, 3, 999, 42, 8, 61, 0, 77})

	prev := table.PercentileOf(0)
	for v := 1.0; v <= 1000; v++ {
		pct := table.PercentileOf(v)
		assert.GreaterOrEqual(t, pct, prev)
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
		prev = pct
	}
}

func TestPercentileOf_SingleValue(t *testing.T) {
	table := Build([]float64{50})

	assert.Equal(t, 0, table.PercentileOf(0))
	assert.Equal(t, 0, table.PercentileOf(50))
	assert.Equal(t, 100, table.PercentileOf(51))
}
