package train

import (
	"fmt"
	"math"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/lastmile-routing/lastmile/common"
	"github.com/lastmile-routing/lastmile/dataset"
	"github.com/lastmile-routing/lastmile/metrics"
	"github.com/lastmile-routing/lastmile/model"
	"github.com/lastmile-routing/lastmile/tsp"
)

// schema for training orchestrator
type Trainer struct {
	Model       *model.IRLModel
	Optimizer   *model.Adam
	Loader      *dataset.Loader
	Solver      tsp.Solver
	Writer      *metrics.Writer
	Epochs      int
	TrainingDir string
	Name        string
}

// run the epoch/step loop
//
// per step: zero grads, one forward over the stacked batch, slice the
// flat output into per-route cost matrices, dispatch the solver pool,
// margin loss, backward, optimizer step. Epoch loss/score are
// normalized by dataset size so a short final batch still yields a
// valid weighted mean. After each epoch the model state is persisted
// iff the mean epoch loss improved on the best seen.
func (t *Trainer) Run() {
	best_loss := math.Inf(1)
	num_batches := t.Loader.NumBatches()

	for epoch := 0; epoch < t.Epochs; epoch++ {
		t.Loader.Shuffle()
		var epoch_loss, epoch_score float64

		for b := 0; b < num_batches; b++ {
			start := time.Now()
			x, samples := t.Loader.Batch(b)

			t.Model.ZeroGrad()
			flat := t.Model.Forward(x)
			thetas := slice_thetas(flat, samples)

			results := SolveBatch(samples, thetas, t.Model.Lambda(), t.Solver)

			loss, grad, lambda_grad := MarginLoss(samples, thetas, results, t.Model.Lambda())
			t.Model.Backward(grad)
			t.Model.AccumulateLambdaGrad(lambda_grad)
			t.Optimizer.Step(t.Model)

			scores := make([]float64, len(results))
			for i, r := range results {
				scores[i] = r.Score
			}
			batch_score := stat.Mean(scores, nil)

			epoch_loss += loss * float64(len(samples))
			epoch_score += batch_score * float64(len(samples))

			step := epoch*num_batches + b
			t.Writer.AddScalar("train/batch_route_loss", step, loss)
			t.Writer.AddScalar("train/batch_route_score", step, batch_score)
			log.Printf(
				"[train] epoch %d, step %d, loss %f, score %f, time %v, lambda %f",
				epoch,
				b,
				loss,
				batch_score,
				time.Since(start),
				t.Model.Lambda(),
			)
		}

		mean_epoch_loss := epoch_loss / float64(t.Loader.Len())
		mean_epoch_score := epoch_score / float64(t.Loader.Len())

		if mean_epoch_loss < best_loss {
			best_loss = mean_epoch_loss
			common.ToFile(
				filepath.Join(t.TrainingDir, fmt.Sprintf("best_model_%s.json", t.Name)),
				t.Model.State(),
			)
			log.Printf("[train] model saved")
		}

		log.Printf(
			"[train] epoch %d, epoch loss %f, epoch score %f",
			epoch,
			mean_epoch_loss,
			mean_epoch_score,
		)
		t.Writer.AddScalar("train/loss", epoch, mean_epoch_loss)
		t.Writer.AddScalar("train/score", epoch, mean_epoch_score)
		t.Writer.Flush()
	}
}

// slice the flat predictor output into per-route square cost matrices
// by cumulative route_len^2 offsets; routes may differ in stop count,
// so offsets are not uniform
// the returned matrices are detached copies: safe to hand across the
// worker boundary while the model retains the differentiable batch
func slice_thetas(flat []float64, samples []*common.RouteSample) [][][]float64 {
	thetas := make([][][]float64, len(samples))
	offset := 0
	for r, s := range samples {
		n := s.Len()
		theta := make([][]float64, n)
		for i := range theta {
			theta[i] = make([]float64, n)
			copy(theta[i], flat[offset+i*n:offset+(i+1)*n])
		}
		thetas[r] = theta
		offset += n * n
	}
	if offset != len(flat) {
		log.Fatalf(
			"[train] theta slicing consumed %d entries, predictor produced %d",
			offset,
			len(flat),
		)
	}
	return thetas
}
