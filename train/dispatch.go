package train

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/lastmile-routing/lastmile/common"
	"github.com/lastmile-routing/lastmile/score"
	"github.com/lastmile-routing/lastmile/tsp"
)

// fixed size of the solve worker pool
const num_workers = 8

// per-route record assembled by the batch dispatcher
type RouteResult struct {
	PredSeq       []int
	DemoViolation float64
	PredViolation float64
	Score         float64
}

// solve every route in the batch against its current cost matrix
// jobs fan out to a fixed worker pool; each worker receives value
// copies only, and results are written back by input index, so output
// order matches input order regardless of completion timing
// a failed solve on any route aborts the whole batch
func SolveBatch(samples []*common.RouteSample, thetas [][][]float64, lambda float64, solver tsp.Solver) []RouteResult {
	results := make([]RouteResult, len(samples))
	jobs := make(chan int, len(samples))
	var wg sync.WaitGroup

	for w := 0; w < num_workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				results[idx] = solve_route(samples[idx], thetas[idx], lambda, solver)
			}
		}()
	}
	for i := range samples {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// solve one route: depot is the first demonstrated stop and lambda is
// truncated to the solver's integral cost unit; violations are
// computed for both the demonstrated and the predicted order, and both
// stop-id cycles are scored against each other
func solve_route(s *common.RouteSample, theta [][]float64, lambda float64, solver tsp.Solver) RouteResult {
	pred, err := solver.Solve(tsp.Input{
		Objective:       theta,
		TravelTimes:     s.TravelTimes,
		TimeConstraints: s.TimeConstraints,
		Depot:           s.Label[0],
		Lambda:          int(lambda),
	})
	if err != nil {
		log.Fatalf("[train] solver failed for route with depot %s: %v", s.StopIDs[s.Label[0]], err)
	}
	if err := valid_sequence(pred, s.Len()); err != nil {
		log.Fatalf("[train] solver returned bad sequence for route with depot %s: %v", s.StopIDs[s.Label[0]], err)
	}

	pred_tv := tsp.TimeViolation(s.TravelTimes, s.TimeConstraints, pred)
	demo_tv := tsp.TimeViolation(s.TravelTimes, s.TimeConstraints, s.Label)
	seq_score := score.Score(s.StopCycle(s.Label), s.StopCycle(pred), s.TravelTimeLookup)

	return RouteResult{
		PredSeq:       pred,
		DemoViolation: demo_tv,
		PredViolation: pred_tv,
		Score:         seq_score,
	}
}

// a sequence is usable only if it visits each of the n stops exactly
// once; external solver processes are not trusted to guarantee that
func valid_sequence(seq []int, n int) error {
	if len(seq) != n {
		return fmt.Errorf("sequence has %d stops, route has %d", len(seq), n)
	}
	seen := make([]bool, n)
	for _, v := range seq {
		if v < 0 || v >= n {
			return fmt.Errorf("stop index %d out of range", v)
		}
		if seen[v] {
			return fmt.Errorf("stop index %d visited twice", v)
		}
		seen[v] = true
	}
	return nil
}
