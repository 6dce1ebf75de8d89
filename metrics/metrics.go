// Package metrics is the scalar sink for a training run: per-step and
// per-epoch scalars appended to a CSV under a timestamped run
// directory. The writer is constructed at run start and closed at run
// end; nothing here is process-global.
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/lastmile-routing/lastmile/common"
)

// scalar metrics writer for one run
type Writer struct {
	dir  string
	csv  *csv.Writer
	file *os.File
}

// create run directory <dir>/<timestamp>_<name> and open scalars.csv
func New(dir, name string) *Writer {
	run := fmt.Sprintf("%s_%s", time.Now().Format("2006-01-02_15-04-05"), name)
	path := filepath.Join(dir, run)
	if err := os.MkdirAll(path, 0755); err != nil {
		log.Fatalf("[metrics] error creating run directory %s: %v", path, err)
	}

	w, f := common.CreateCSVWriter(filepath.Join(path, "scalars.csv"))
	if err := w.Write([]string{"tag", "step", "value"}); err != nil {
		log.Fatalf("[metrics] error writing scalar header: %v", err)
	}

	log.Printf("[metrics] writing scalars to %s", path)
	return &Writer{dir: path, csv: w, file: f}
}

// run directory for this writer
func (w *Writer) Dir() string {
	return w.dir
}

// append one scalar sample
func (w *Writer) AddScalar(tag string, step int, value float64) {
	err := w.csv.Write([]string{
		tag,
		strconv.Itoa(step),
		strconv.FormatFloat(value, 'g', -1, 64),
	})
	if err != nil {
		log.Fatalf("[metrics] error writing scalar %s: %v", tag, err)
	}
}

// flush buffered scalars; Write errors only surface here, so the
// buffered error state is consulted after every flush
func (w *Writer) Flush() {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		log.Fatalf("[metrics] error flushing scalars: %v", err)
	}
}

// flush and release the underlying file
func (w *Writer) Close() {
	w.Flush()
	if err := w.file.Close(); err != nil {
		log.Fatalf("[metrics] error closing scalar file: %v", err)
	}
}
