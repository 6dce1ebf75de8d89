package common

import "fmt"

// schema for a single demonstrated route
type RouteSample struct {
	StopIDs          []string         `json:"stop_ids"`
	TravelTimes      [][]float64      `json:"travel_times"`
	EdgeFeatures     [][][]float64    `json:"edge_features"`
	TimeConstraints  [][2]float64     `json:"time_constraints"`
	Label            []int            `json:"label"`
	BinaryMat        [][]float64      `json:"-"`
	TravelTimeLookup TravelTimeLookup `json:"-"`
}

// lookup from (src stop id, dst stop id) --> travel time
type TravelTimeLookup map[string]map[string]float64

func (t TravelTimeLookup) Get(src, dst string) float64 {
	return t[src][dst]
}

// number of stops on the route
func (r *RouteSample) Len() int {
	return len(r.StopIDs)
}

// number of feature planes
func (r *RouteSample) NumFeatures() int {
	return len(r.EdgeFeatures)
}

// check matrix shapes and label permutation
// travel times, every feature plane and the label share the
// N x N index space; time constraints are positional on the label
func (r *RouteSample) Validate() error {
	n := r.Len()
	if n < 2 {
		return fmt.Errorf("route has %d stops; need at least 2", n)
	}
	if len(r.TravelTimes) != n {
		return fmt.Errorf("travel time matrix has %d rows, expected %d", len(r.TravelTimes), n)
	}
	for i, row := range r.TravelTimes {
		if len(row) != n {
			return fmt.Errorf("travel time row %d has %d cols, expected %d", i, len(row), n)
		}
	}
	for f, plane := range r.EdgeFeatures {
		if len(plane) != n {
			return fmt.Errorf("feature plane %d has %d rows, expected %d", f, len(plane), n)
		}
		for i, row := range plane {
			if len(row) != n {
				return fmt.Errorf("feature plane %d row %d has %d cols, expected %d", f, i, len(row), n)
			}
		}
	}
	if len(r.TimeConstraints) != n {
		return fmt.Errorf("route has %d time constraints, expected %d", len(r.TimeConstraints), n)
	}
	if len(r.Label) != n {
		return fmt.Errorf("label has %d stops, expected %d", len(r.Label), n)
	}
	seen := make([]bool, n)
	for _, s := range r.Label {
		if s < 0 || s >= n || seen[s] {
			return fmt.Errorf("label %v is not a permutation of 0..%d", r.Label, n-1)
		}
		seen[s] = true
	}
	return nil
}

// precompute demonstrated indicator matrix and travel time lookup
func (r *RouteSample) BuildDerived() {
	n := r.Len()
	r.BinaryMat = SeqBinaryMat(r.Label, n)
	r.TravelTimeLookup = make(TravelTimeLookup, n)
	for i, src := range r.StopIDs {
		r.TravelTimeLookup[src] = make(map[string]float64, n)
		for j, dst := range r.StopIDs {
			r.TravelTimeLookup[src][dst] = r.TravelTimes[i][j]
		}
	}
}

// map stop indices to external stop ids and close the cycle
func (r *RouteSample) StopCycle(seq []int) []string {
	cycle := make([]string, len(seq)+1)
	for i, s := range seq {
		cycle[i] = r.StopIDs[s]
	}
	cycle[len(seq)] = cycle[0]
	return cycle
}

// directed indicator matrix of a cyclic sequence:
// 1 at (seq[i-1], seq[i]) for consecutive pairs plus the closing edge
func SeqBinaryMat(seq []int, n int) [][]float64 {
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for i := 1; i < len(seq); i++ {
		mat[seq[i-1]][seq[i]] = 1
	}
	mat[seq[len(seq)-1]][seq[0]] = 1
	return mat
}
