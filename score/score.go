// Package score compares a predicted stop-id cycle against the
// demonstrated one. The score is sequence deviation scaled by
// ERP-per-edit (edit distance with real penalty under the travel time
// lookup): 0 for a perfect match, larger is worse.
package score

import (
	"math"

	"github.com/lastmile-routing/lastmile/common"
)

// Score both cycles must be closed (first stop repeated at the end)
// and visit the same stop set
func Score(demo, pred []string, tt common.TravelTimeLookup) float64 {
	actual := open_cycle(demo)
	sub := open_cycle(pred)
	dev := seq_dev(actual, sub)
	erp, edits := erp_edit(actual, sub, tt)
	if edits == 0 {
		return 0
	}
	return dev * erp / float64(edits)
}

// drop the closing element of a cycle
func open_cycle(cycle []string) []string {
	if len(cycle) > 1 && cycle[0] == cycle[len(cycle)-1] {
		return cycle[:len(cycle)-1]
	}
	return cycle
}

// sequence deviation: mean positional jump of the submitted order
// through the demonstrated order, normalized to [0, 1]
func seq_dev(actual, sub []string) float64 {
	n := len(actual)
	if n < 2 {
		return 0
	}
	rank := make(map[string]int, n)
	for i, s := range actual {
		rank[s] = i
	}
	var dev float64
	for i := 1; i < len(sub); i++ {
		dev += math.Abs(float64(rank[sub[i]]-rank[sub[i-1]])) - 1
	}
	return 2 * dev / float64(n*(n-1))
}

// edit distance with real penalty between the two orders:
// substitution costs the normalized travel time between the mismatched
// stops, insertion/deletion costs one unit; returns the accumulated
// penalty and the number of non-match edits on the optimal alignment
func erp_edit(actual, sub []string, tt common.TravelTimeLookup) (float64, int) {
	n, m := len(actual), len(sub)
	norm := max_travel_time(tt)

	// cost and edit-count tables, (n+1) x (m+1)
	cost := make([][]float64, n+1)
	edits := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]float64, m+1)
		edits[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		cost[i][0] = float64(i)
		edits[i][0] = i
	}
	for j := 1; j <= m; j++ {
		cost[0][j] = float64(j)
		edits[0][j] = j
	}

	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			var sub_cost float64
			var sub_edit int
			if actual[i-1] != sub[j-1] {
				sub_cost = tt.Get(actual[i-1], sub[j-1]) / norm
				sub_edit = 1
			}
			match := cost[i-1][j-1] + sub_cost
			del := cost[i-1][j] + 1
			ins := cost[i][j-1] + 1
			switch {
			case match <= del && match <= ins:
				cost[i][j] = match
				edits[i][j] = edits[i-1][j-1] + sub_edit
			case del <= ins:
				cost[i][j] = del
				edits[i][j] = edits[i-1][j] + 1
			default:
				cost[i][j] = ins
				edits[i][j] = edits[i][j-1] + 1
			}
		}
	}
	return cost[n][m], edits[n][m]
}

func max_travel_time(tt common.TravelTimeLookup) float64 {
	max := 1.0
	for _, row := range tt {
		for _, t := range row {
			if t > max {
				max = t
			}
		}
	}
	return max
}
