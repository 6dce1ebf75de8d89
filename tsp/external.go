package tsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"

	"github.com/lastmile-routing/lastmile/common"
)

// wrapper for an external solver process
// the solver reads Input as JSON on stdin and writes the visiting
// order as a JSON array of stop indices on stdout
type ExternalSolver struct {
	Command string
	Args    []string
}

func (e *ExternalSolver) Solve(in Input) ([]int, error) {
	inpj := common.ToJSON(in)

	// run solver
	cmd := exec.Command(e.Command, e.Args...)
	var inpbuf, outbuf bytes.Buffer
	inpbuf.Write(inpj)
	cmd.Stdin = &inpbuf
	cmd.Stdout = &outbuf
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("error running solver %s: %v", e.Command, err)
	}

	var seq []int
	if err := json.Unmarshal(outbuf.Bytes(), &seq); err != nil {
		return nil, fmt.Errorf("error unmarshaling solver output: %v", err)
	}
	return seq, nil
}
