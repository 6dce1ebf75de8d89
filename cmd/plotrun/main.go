// plotrun renders loss/score curves from a training run's scalars.csv.
package main

import (
	"encoding/csv"
	"flag"
	"image/color"
	"os"
	"path/filepath"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// read one tag's scalar series from the run's scalars.csv
func read_series(path, tag string) plotter.XYs {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("[plotrun] error opening %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		log.Fatalf("[plotrun] error reading %s: %v", path, err)
	}

	var xys plotter.XYs
	for i, rec := range records {
		if i == 0 || len(rec) != 3 || rec[0] != tag {
			continue
		}
		step, err := strconv.Atoi(rec[1])
		if err != nil {
			log.Fatalf("[plotrun] bad step %q for tag %s: %v", rec[1], tag, err)
		}
		value, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			log.Fatalf("[plotrun] bad value %q for tag %s: %v", rec[2], tag, err)
		}
		xys = append(xys, plotter.XY{X: float64(step), Y: value})
	}
	return xys
}

// render one scalar series as a line chart
func plot_series(title, xlabel, out string, xys plotter.XYs) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xlabel
	p.Y.Label.Text = "value"

	line, err := plotter.NewLine(xys)
	if err != nil {
		log.Fatalf("[plotrun] error building line for %s: %v", title, err)
	}
	line.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	line.Width = vg.Points(1.2)
	p.Add(line, plotter.NewGrid())

	if err := p.Save(8*vg.Inch, 6*vg.Inch, out); err != nil {
		log.Fatalf("[plotrun] error saving %s: %v", out, err)
	}
}

func main() {
	var run = flag.String(
		"run",
		"",
		"run directory containing scalars.csv",
	)
	flag.Parse()

	if *run == "" {
		log.Fatalf("[plotrun] -run is required")
	}
	scalars := filepath.Join(*run, "scalars.csv")

	charts := []struct {
		tag    string
		xlabel string
		out    string
	}{
		{"train/loss", "epoch", "loss.png"},
		{"train/score", "epoch", "score.png"},
		{"train/batch_route_loss", "step", "batch_loss.png"},
		{"train/batch_route_score", "step", "batch_score.png"},
	}
	for _, c := range charts {
		xys := read_series(scalars, c.tag)
		if len(xys) == 0 {
			log.Printf("[plotrun] no samples for tag %s, skipping", c.tag)
			continue
		}
		out := filepath.Join(*run, c.out)
		plot_series(c.tag, c.xlabel, out, xys)
		log.Printf("[plotrun] wrote %s", out)
	}
}
