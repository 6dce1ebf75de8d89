package tsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asym_matrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i != j {
				m[i][j] = float64(10*i + j + 1)
			}
		}
	}
	return m
}

func TestEdgeCostSumsAllCycleEdges(t *testing.T) {
	// every entry 1: a cyclic sequence of length n traverses exactly n edges
	n := 5
	cost := make([][]float64, n)
	for i := range cost {
		cost[i] = make([]float64, n)
		for j := range cost[i] {
			cost[i][j] = 1
		}
	}
	total, _ := EdgeCost(cost, nil, []int{0, 1, 2, 3, 4})
	assert.Equal(t, float64(n), total)
}

func TestEdgeCostRotationInvariant(t *testing.T) {
	cost := asym_matrix(4)
	a, _ := EdgeCost(cost, nil, []int{0, 1, 2, 3})
	b, _ := EdgeCost(cost, nil, []int{2, 3, 0, 1})
	assert.InDelta(t, a, b, 1e-12)
}

func TestEdgeCostReversalChangesDirectedCost(t *testing.T) {
	cost := asym_matrix(4)
	fwd, _ := EdgeCost(cost, nil, []int{0, 1, 2, 3})
	rev, _ := EdgeCost(cost, nil, []int{3, 2, 1, 0})
	assert.NotEqual(t, fwd, rev)
}

func TestEdgeCostFeatureBreakdown(t *testing.T) {
	n := 3
	cost := asym_matrix(n)
	ones := make([][]float64, n)
	twos := make([][]float64, n)
	for i := 0; i < n; i++ {
		ones[i] = []float64{1, 1, 1}
		twos[i] = []float64{2, 2, 2}
	}
	_, features := EdgeCost(cost, [][][]float64{ones, twos}, []int{0, 1, 2})
	require.Len(t, features, 2)
	assert.Equal(t, 3.0, features[0])
	assert.Equal(t, 6.0, features[1])
}

func TestTimeViolationZeroWithinWindows(t *testing.T) {
	tt := [][]float64{
		{0, 1, 9},
		{9, 0, 1},
		{1, 9, 0},
	}
	// elapsed at positions 1, 2 is 1, 2
	constraints := [][2]float64{{0, 0}, {0, 5}, {0, 5}}
	assert.Zero(t, TimeViolation(tt, constraints, []int{0, 1, 2}))
}

func TestTimeViolationTightensMonotonically(t *testing.T) {
	tt := [][]float64{
		{0, 2, 9},
		{9, 0, 2},
		{2, 9, 0},
	}
	seq := []int{0, 1, 2}
	loose := TimeViolation(tt, [][2]float64{{0, 0}, {0, 3}, {0, 3}}, seq)
	tight := TimeViolation(tt, [][2]float64{{0, 0}, {0, 1}, {0, 2}}, seq)
	tighter := TimeViolation(tt, [][2]float64{{0, 0}, {0, 0.5}, {0, 1}}, seq)

	assert.Greater(t, tight, loose)
	assert.Greater(t, tighter, tight)
	// elapsed 2 and 4 vs uppers 1 and 2: late by 1 + 2
	assert.InDelta(t, 3.0, tight, 1e-12)
}

func TestTimeViolationEarlyPenalty(t *testing.T) {
	tt := [][]float64{
		{0, 1, 9},
		{9, 0, 1},
		{1, 9, 0},
	}
	// arriving at elapsed 1 before the window opens at 4 costs 3
	constraints := [][2]float64{{0, 0}, {4, 10}, {0, 10}}
	assert.InDelta(t, 3.0, TimeViolation(tt, constraints, []int{0, 1, 2}), 1e-12)
}
