package train

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lastmile-routing/lastmile/common"
)

func TestMarginLossZeroWhenPredictionMatchesDemo(t *testing.T) {
	// single route, 4 stops, identity cost matrix, predicted == demonstrated
	s := make_sample([]int{0, 1, 2, 3})
	theta := [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
	results := []RouteResult{{
		PredSeq:       []int{0, 1, 2, 3},
		DemoViolation: 0,
		PredViolation: 0,
	}}

	loss, grad, lambda_grad := MarginLoss(
		[]*common.RouteSample{s},
		[][][]float64{theta},
		results,
		1.0,
	)
	assert.Zero(t, loss)
	assert.Zero(t, lambda_grad)
	for _, g := range grad {
		assert.Zero(t, g)
	}
}

func TestMarginLossZeroWhenDemoScoresBetter(t *testing.T) {
	// demo edges are free, predicted edges cost 1: margin is negative
	s := make_sample([]int{0, 1, 2})
	theta := [][]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
	}
	results := []RouteResult{{PredSeq: []int{0, 2, 1}}}

	loss, grad, lambda_grad := MarginLoss(
		[]*common.RouteSample{s},
		[][][]float64{theta},
		results,
		1.0,
	)
	assert.Zero(t, loss)
	assert.Zero(t, lambda_grad)
	for _, g := range grad {
		assert.Zero(t, g)
	}
}

func TestMarginLossActiveHinge(t *testing.T) {
	// demo edges cost 1 each, predicted edges are free:
	// margin = 3, hinge active
	s := make_sample([]int{0, 1, 2})
	theta := [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	results := []RouteResult{{
		PredSeq:       []int{0, 2, 1},
		DemoViolation: 2,
		PredViolation: 5,
	}}

	lambda := 0.5
	loss, grad, lambda_grad := MarginLoss(
		[]*common.RouteSample{s},
		[][][]float64{theta},
		results,
		lambda,
	)
	// (3 + 0.5*2) - (0 + 0.5*5) = 1.5
	assert.InDelta(t, 1.5, loss, 1e-12)
	// d(loss)/d(lambda) = demo_tv - pred_tv = -3
	assert.InDelta(t, -3.0, lambda_grad, 1e-12)

	// gradient is demo indicator minus pred indicator
	demo := common.SeqBinaryMat([]int{0, 1, 2}, 3)
	pred := common.SeqBinaryMat([]int{0, 2, 1}, 3)
	require.Len(t, grad, 9)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, demo[i][j]-pred[i][j], grad[i*3+j], 1e-12)
		}
	}
}

func TestMarginLossAveragesAcrossBatch(t *testing.T) {
	// one active route (margin 3) and one inactive
	active := make_sample([]int{0, 1, 2})
	inactive := make_sample([]int{0, 1, 2})
	active_theta := [][]float64{
		{0, 1, 0},
		{0, 0, 1},
		{1, 0, 0},
	}
	inactive_theta := [][]float64{
		{0, 0, 1},
		{1, 0, 0},
		{0, 1, 0},
	}
	results := []RouteResult{
		{PredSeq: []int{0, 2, 1}},
		{PredSeq: []int{0, 2, 1}},
	}

	loss, grad, _ := MarginLoss(
		[]*common.RouteSample{active, inactive},
		[][][]float64{active_theta, inactive_theta},
		results,
		1.0,
	)
	assert.InDelta(t, 1.5, loss, 1e-12)

	// active route gradients scaled by 1/B, inactive all zero
	assert.InDelta(t, 0.5, grad[0*3+1], 1e-12)
	for _, g := range grad[9:] {
		assert.Zero(t, g)
	}
}

func TestMarginLossNonNegative(t *testing.T) {
	s := make_sample([]int{2, 0, 1})
	theta := [][]float64{
		{0.3, -1.2, 0.7},
		{2.1, 0.4, -0.9},
		{-0.5, 1.8, 0.2},
	}
	for _, pred := range [][]int{{2, 0, 1}, {2, 1, 0}} {
		results := []RouteResult{{PredSeq: pred, DemoViolation: 1, PredViolation: 4}}
		loss, _, _ := MarginLoss(
			[]*common.RouteSample{s},
			[][][]float64{theta},
			results,
			2.0,
		)
		assert.GreaterOrEqual(t, loss, 0.0)
	}
}
