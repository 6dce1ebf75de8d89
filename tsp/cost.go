package tsp

import "math"

// accumulated cost of a cyclic visiting order under a cost matrix,
// plus the per-feature breakdown over the same edges
// walks consecutive pairs (seq[i-1], seq[i]) and closes the cycle
func EdgeCost(costMat [][]float64, features [][][]float64, seq []int) (float64, []float64) {
	var timeCost float64
	featureCost := make([]float64, len(features))
	for i := 1; i < len(seq); i++ {
		timeCost += costMat[seq[i-1]][seq[i]]
		for f := range features {
			featureCost[f] += features[f][seq[i-1]][seq[i]]
		}
	}
	last, first := seq[len(seq)-1], seq[0]
	timeCost += costMat[last][first]
	for f := range features {
		featureCost[f] += features[f][last][first]
	}
	return timeCost, featureCost
}

// total time-window violation of a visiting order:
// cumulative elapsed time at each position vs that position's window,
// early and late penalties accumulated separately and summed
// constraints index by position in the given sequence, not by stop id
func TimeViolation(travelTimes [][]float64, constraints [][2]float64, seq []int) float64 {
	var elapsed, early, late float64
	for i := 1; i < len(seq); i++ {
		elapsed += travelTimes[seq[i-1]][seq[i]]
		late += math.Max(0, elapsed-constraints[i][1])
		early += math.Max(0, constraints[i][0]-elapsed)
	}
	return early + late
}
