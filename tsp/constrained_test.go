package tsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ring_input(depot int) Input {
	// cheap ring 0->1->2->3->0, every other edge expensive
	obj := [][]float64{
		{0, 1, 10, 10},
		{10, 0, 1, 10},
		{10, 10, 0, 1},
		{1, 10, 10, 0},
	}
	return Input{
		Objective:       obj,
		TravelTimes:     obj,
		TimeConstraints: [][2]float64{{0, 100}, {0, 100}, {0, 100}, {0, 100}},
		Depot:           depot,
		Lambda:          1,
	}
}

func TestConstrainedSolverReturnsPermutationFromDepot(t *testing.T) {
	s := &ConstrainedSolver{}
	for depot := 0; depot < 4; depot++ {
		in := ring_input(depot)
		seq, err := s.Solve(in)
		require.NoError(t, err)
		require.Len(t, seq, 4)
		assert.Equal(t, depot, seq[0])

		seen := make(map[int]bool)
		for _, v := range seq {
			assert.False(t, seen[v], "stop %d visited twice", v)
			seen[v] = true
		}
	}
}

func TestConstrainedSolverFindsCheapRing(t *testing.T) {
	s := &ConstrainedSolver{}
	seq, err := s.Solve(ring_input(0))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, seq)
}

func TestConstrainedSolverDeterministic(t *testing.T) {
	s := &ConstrainedSolver{}
	first, err := s.Solve(ring_input(2))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := s.Solve(ring_input(2))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestConstrainedSolverRespectsWindows(t *testing.T) {
	// edge costs pull toward 0->2->1 but its slow legs blow every
	// window; a large lambda must flip the order to 0->1->2
	obj := [][]float64{
		{0, 5, 1},
		{1, 0, 5},
		{5, 1, 0},
	}
	tt := [][]float64{
		{0, 1, 5},
		{5, 0, 1},
		{1, 5, 0},
	}
	in := Input{
		Objective:       obj,
		TravelTimes:     tt,
		TimeConstraints: [][2]float64{{0, 0}, {0, 1}, {0, 2}},
		Depot:           0,
		Lambda:          100,
	}
	s := &ConstrainedSolver{}
	seq, err := s.Solve(in)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seq)
}

func TestConstrainedSolverRejectsBadInput(t *testing.T) {
	s := &ConstrainedSolver{}

	_, err := s.Solve(Input{Objective: [][]float64{{0}}})
	assert.Error(t, err)

	in := ring_input(0)
	in.Depot = 7
	_, err = s.Solve(in)
	assert.Error(t, err)
}
