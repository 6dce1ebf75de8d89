package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/lastmile-routing/lastmile/common"
	"github.com/lastmile-routing/lastmile/dataset"
	"github.com/lastmile-routing/lastmile/metrics"
	"github.com/lastmile-routing/lastmile/model"
	"github.com/lastmile-routing/lastmile/train"
	"github.com/lastmile-routing/lastmile/tsp"
)

type Config struct {
	LearningRate   float64    `json:"learning_rate"`
	BatchSize      int        `json:"batch_size"`
	NumTrainEpochs int        `json:"num_train_epochs"`
	Seed           int64      `json:"seed"`
	Data           string     `json:"data"`
	TrainingDir    string     `json:"training_dir"`
	MetricsDir     string     `json:"metrics_dir"`
	Name           string     `json:"name"`
	Solver         string     `json:"solver"`
	SolverCmd      string     `json:"solver_cmd"`
	InitLambda     float64    `json:"init_lambda"`
	Hidden         HiddenList `json:"hidden"`
	Verbose        bool       `json:"verbose"`
}

type HiddenList []int

func (h *HiddenList) String() string { return fmt.Sprintf("%v ", *h) }
func (h *HiddenList) Set(value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	*h = append(*h, n)
	return nil
}

// Create directory to save training outputs
func create_dir(path string) {
	if err := os.MkdirAll(path, 0755); err != nil {
		log.Fatalf("[main] error creating directory %s", path)
	}
}

func main() {
	var cfg Config
	flag.Float64Var(
		&cfg.LearningRate,
		"lr",
		0.01,
		"optimizer learning rate",
	)
	flag.IntVar(
		&cfg.BatchSize,
		"batch",
		8,
		"routes per mini-batch",
	)
	flag.IntVar(
		&cfg.NumTrainEpochs,
		"epochs",
		50,
		"number of training epochs",
	)
	flag.Int64Var(
		&cfg.Seed,
		"seed",
		42,
		"RNG seed (init, shuffle)",
	)
	flag.StringVar(
		&cfg.Data,
		"data",
		"data",
		"directory containing routes.json",
	)
	flag.StringVar(
		&cfg.TrainingDir,
		"training_dir",
		"output",
		"directory for best-model checkpoints",
	)
	flag.StringVar(
		&cfg.MetricsDir,
		"metrics_dir",
		"runs",
		"directory for per-run scalar logs",
	)
	flag.StringVar(
		&cfg.Name,
		"name",
		"irl",
		"run name (keys checkpoint and run directory)",
	)
	flag.StringVar(
		&cfg.Solver,
		"solver",
		"greedy",
		"solver type (greedy, external)",
	)
	flag.StringVar(
		&cfg.SolverCmd,
		"solver_cmd",
		"",
		"command for the external solver (JSON on stdin/stdout)",
	)
	flag.Float64Var(
		&cfg.InitLambda,
		"lambda",
		1.0,
		"initial cost/violation trade-off weight",
	)
	flag.Var(
		&cfg.Hidden,
		"hidden",
		"hidden layer width (repeatable)",
	)
	flag.BoolVar(
		&cfg.Verbose,
		"verbose",
		false,
		"enable verbose logging",
	)
	flag.Parse()

	// set logging level
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if len(cfg.Hidden) == 0 {
		cfg.Hidden = HiddenList{32, 32}
	}

	// print config
	log.Printf("%+v", cfg)

	rng := rand.New(rand.NewSource(cfg.Seed))

	// init solver
	var solver tsp.Solver
	switch cfg.Solver {
	case "greedy":
		solver = &tsp.ConstrainedSolver{}
	case "external":
		if cfg.SolverCmd == "" {
			log.Fatalf("[main] external solver requires -solver_cmd")
		}
		solver = &tsp.ExternalSolver{Command: cfg.SolverCmd}
	default:
		log.Fatalf("[main] solver %v not supported", cfg.Solver)
	}

	// create output directories, persist config
	create_dir(cfg.TrainingDir)
	writer := metrics.New(cfg.MetricsDir, cfg.Name)
	common.ToFile(writer.Dir()+"/config.cfg", cfg)

	// load dataset, init model
	loader := dataset.NewLoader(cfg.Data, cfg.BatchSize, rng)
	m := model.New(loader.NumFeatures(), cfg.Hidden, cfg.InitLambda, rng)

	// run training
	trainer := train.Trainer{
		Model:       m,
		Optimizer:   model.NewAdam(cfg.LearningRate),
		Loader:      loader,
		Solver:      solver,
		Writer:      writer,
		Epochs:      cfg.NumTrainEpochs,
		TrainingDir: cfg.TrainingDir,
		Name:        cfg.Name,
	}
	trainer.Run()
	writer.Close()
	log.Printf("[main] finished training")
}
