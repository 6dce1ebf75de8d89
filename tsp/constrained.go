package tsp

import (
	"fmt"
	"math"

	"github.com/yourbasic/bit"
)

const (
	// default cap on 2-opt sweeps
	default_sweeps = 50
	// minimum improvement accepted by a 2-opt move
	improve_eps = 1e-12
)

// in-process constrained TSP solver: deterministic greedy
// nearest-feasible construction from the depot, then 2-opt descent
// on the penalized objective cost + lambda * violation
type ConstrainedSolver struct {
	MaxSweeps int
}

func (c *ConstrainedSolver) Solve(in Input) ([]int, error) {
	n := len(in.Objective)
	if n < 2 {
		return nil, fmt.Errorf("objective matrix has %d stops; need at least 2", n)
	}
	if in.Depot < 0 || in.Depot >= n {
		return nil, fmt.Errorf("depot %d out of range [0, %d)", in.Depot, n)
	}
	seq := c.construct(in, n)
	seq = c.improve(in, seq)
	return seq, nil
}

// penalized tour objective: cyclic edge cost + lambda * window violation
func penalized_cost(in Input, seq []int) float64 {
	var cost float64
	for i := 1; i < len(seq); i++ {
		cost += in.Objective[seq[i-1]][seq[i]]
	}
	cost += in.Objective[seq[len(seq)-1]][seq[0]]
	return cost + float64(in.Lambda)*TimeViolation(in.TravelTimes, in.TimeConstraints, seq)
}

// greedy construction: from the current stop, append the unvisited stop
// with the cheapest edge cost plus penalty for missing the next window
func (c *ConstrainedSolver) construct(in Input, n int) []int {
	seq := make([]int, 1, n)
	seq[0] = in.Depot
	visited := new(bit.Set).Add(in.Depot)
	cur := in.Depot
	var elapsed float64

	for len(seq) < n {
		w := in.TimeConstraints[len(seq)]
		best := -1
		best_cost := math.Inf(1)
		for j := 0; j < n; j++ {
			if visited.Contains(j) {
				continue
			}
			t := elapsed + in.TravelTimes[cur][j]
			penalty := math.Max(0, t-w[1]) + math.Max(0, w[0]-t)
			cand := in.Objective[cur][j] + float64(in.Lambda)*penalty
			if cand < best_cost {
				best = j
				best_cost = cand
			}
		}
		visited.Add(best)
		seq = append(seq, best)
		elapsed += in.TravelTimes[cur][best]
		cur = best
	}
	return seq
}

// 2-opt descent; the depot stays fixed at position 0, so candidate
// moves reverse segments within seq[1:] only
func (c *ConstrainedSolver) improve(in Input, seq []int) []int {
	sweeps := c.MaxSweeps
	if sweeps <= 0 {
		sweeps = default_sweeps
	}
	n := len(seq)
	best := penalized_cost(in, seq)
	for s := 0; s < sweeps; s++ {
		improved := false
		for i := 1; i < n-1; i++ {
			for j := i + 1; j < n; j++ {
				reverse_segment(seq, i, j)
				if cand := penalized_cost(in, seq); cand < best-improve_eps {
					best = cand
					improved = true
				} else {
					reverse_segment(seq, i, j)
				}
			}
		}
		if !improved {
			break
		}
	}
	return seq
}

func reverse_segment(seq []int, i, j int) {
	for i < j {
		seq[i], seq[j] = seq[j], seq[i]
		i++
		j--
	}
}
