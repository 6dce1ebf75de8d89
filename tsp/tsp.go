package tsp

// schema for solver input
// Objective is the learned edge-cost (theta) matrix, Lambda the
// integral trade-off weight between cost and window violation
type Input struct {
	Objective       [][]float64  `json:"objective"`
	TravelTimes     [][]float64  `json:"travel_times"`
	TimeConstraints [][2]float64 `json:"time_constraints"`
	Depot           int          `json:"depot"`
	Lambda          int          `json:"lambda"`
}

// interface to constrained TSP solvers
// Solve returns a visiting order over all stops starting at the depot;
// the returned sequence is implicitly cyclic (last stop returns to first)
type Solver interface {
	Solve(Input) ([]int, error)
}
