// Package dataset loads demonstrated routes and serves them in
// shuffled mini-batches. Each batch carries the stacked per-edge
// feature design matrix (one row per directed edge, route-major) next
// to the route records themselves.
package dataset

import (
	"math/rand"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/lastmile-routing/lastmile/common"
)

// route dataset provider
type Loader struct {
	samples      []*common.RouteSample
	batch_size   int
	num_features int
	rng          *rand.Rand
	order        []int
}

// load routes.json from the data directory, validate shapes and
// precompute per-route derived structures
// shape mismatches are fatal: the training loop cannot recover them
func NewLoader(dataDir string, batchSize int, rng *rand.Rand) *Loader {
	var samples []*common.RouteSample
	common.FromFile(filepath.Join(dataDir, "routes.json"), &samples)
	if len(samples) == 0 {
		log.Fatalf("[dataset] no routes found in %s", dataDir)
	}
	if batchSize < 1 {
		log.Fatalf("[dataset] batch size %d; must be at least 1", batchSize)
	}

	nf := samples[0].NumFeatures()
	for i, s := range samples {
		if err := s.Validate(); err != nil {
			log.Fatalf("[dataset] route %d: %v", i, err)
		}
		if s.NumFeatures() != nf {
			log.Fatalf(
				"[dataset] route %d has %d feature planes, expected %d",
				i,
				s.NumFeatures(),
				nf,
			)
		}
		s.BuildDerived()
	}

	l := &Loader{
		samples:      samples,
		batch_size:   batchSize,
		num_features: nf,
		rng:          rng,
		order:        make([]int, len(samples)),
	}
	for i := range l.order {
		l.order[i] = i
	}
	log.Printf("[dataset] loaded %d routes, %d feature planes", len(samples), nf)
	return l
}

// number of routes in the dataset
func (l *Loader) Len() int {
	return len(l.samples)
}

func (l *Loader) NumFeatures() int {
	return l.num_features
}

// number of batches per epoch; the final batch may be short
func (l *Loader) NumBatches() int {
	return (len(l.samples) + l.batch_size - 1) / l.batch_size
}

// reshuffle the iteration order; called once per epoch
func (l *Loader) Shuffle() {
	l.rng.Shuffle(len(l.order), func(i, j int) {
		l.order[i], l.order[j] = l.order[j], l.order[i]
	})
}

// assemble batch idx: stacked feature matrix + route records
func (l *Loader) Batch(idx int) (*mat.Dense, []*common.RouteSample) {
	start := idx * l.batch_size
	end := start + l.batch_size
	if end > len(l.samples) {
		end = len(l.samples)
	}
	batch := make([]*common.RouteSample, 0, end-start)
	for _, i := range l.order[start:end] {
		batch = append(batch, l.samples[i])
	}
	return StackFeatures(batch, l.num_features), batch
}

// stack per-route edge features into one design matrix:
// one row per directed edge (i, j), route-major, row index
// offset(route) + i*N + j; column f holds feature plane f
func StackFeatures(samples []*common.RouteSample, numFeatures int) *mat.Dense {
	total := 0
	for _, s := range samples {
		n := s.Len()
		total += n * n
	}
	x := mat.NewDense(total, numFeatures, nil)
	row := 0
	for _, s := range samples {
		n := s.Len()
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				for f := 0; f < numFeatures; f++ {
					x.Set(row, f, s.EdgeFeatures[f][i][j])
				}
				row++
			}
		}
	}
	return x
}
