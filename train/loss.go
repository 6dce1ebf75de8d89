package train

import (
	"github.com/lastmile-routing/lastmile/common"
)

// batch margin loss and its analytic gradients.
//
// Per route the demonstrated sequence must score at least as well as
// the solver's competitor under the current cost matrix:
//
//	hinge = max(0, (demo_cost + lambda*demo_tv) - (pred_cost + lambda*pred_tv))
//
// where each cost is the sum of the cost matrix over the edges the
// sequence traverses. The batch loss is the mean hinge. Gradients flow
// only through the cost matrix terms and lambda, never through the
// solver: for an active hinge d(loss)/d(theta) is the indicator
// difference (demo - pred)/B and d(loss)/d(lambda) is
// (demo_tv - pred_tv)/B.
//
// The returned theta gradient is flat, aligned row-major with the
// stacked predictor output for this batch.
func MarginLoss(samples []*common.RouteSample, thetas [][][]float64, results []RouteResult, lambda float64) (float64, []float64, float64) {
	total := 0
	for _, s := range samples {
		n := s.Len()
		total += n * n
	}
	grad := make([]float64, total)
	b := float64(len(samples))

	var loss, lambda_grad float64
	offset := 0
	for r, s := range samples {
		n := s.Len()
		theta := thetas[r]
		pred_ind := common.SeqBinaryMat(results[r].PredSeq, n)

		var demo_cost, pred_cost float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				demo_cost += s.BinaryMat[i][j] * theta[i][j]
				pred_cost += pred_ind[i][j] * theta[i][j]
			}
		}

		margin := (demo_cost + lambda*results[r].DemoViolation) -
			(pred_cost + lambda*results[r].PredViolation)
		if margin > 0 {
			loss += margin
			for i := 0; i < n; i++ {
				for j := 0; j < n; j++ {
					grad[offset+i*n+j] = (s.BinaryMat[i][j] - pred_ind[i][j]) / b
				}
			}
			lambda_grad += (results[r].DemoViolation - results[r].PredViolation) / b
		}
		offset += n * n
	}

	return loss / b, grad, lambda_grad
}
