// Package model holds the cost-matrix predictor: a small MLP applied
// row-wise over per-edge feature vectors, plus the trainable lambda
// scalar that trades off edge cost against time-window violation.
// Gradients are accumulated explicitly; the margin loss supplies
// d(loss)/d(theta) and d(loss)/d(lambda) directly, so no gradient ever
// flows through the combinatorial solver.
package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// schema for IRL model
type IRLModel struct {
	NumFeatures int
	Hidden      []int

	weights []*mat.Dense
	biases  []*mat.VecDense
	lamb    []float64

	w_grad    []*mat.Dense
	b_grad    []*mat.VecDense
	lamb_grad []float64

	// forward caches for backprop
	acts     []*mat.Dense
	preacts  []*mat.Dense
	out_rows int
}

// create model with Xavier-style init from the seeded RNG
func New(numFeatures int, hidden []int, lambda float64, rng *rand.Rand) *IRLModel {
	m := &IRLModel{
		NumFeatures: numFeatures,
		Hidden:      append([]int{}, hidden...),
		lamb:        []float64{lambda},
		lamb_grad:   []float64{0},
	}
	sizes := layer_sizes(numFeatures, hidden)
	for l := 0; l < len(sizes)-1; l++ {
		in, out := sizes[l], sizes[l+1]
		scale := math.Sqrt(2.0 / float64(in+out))
		data := make([]float64, in*out)
		for i := range data {
			data[i] = rng.NormFloat64() * scale
		}
		m.weights = append(m.weights, mat.NewDense(in, out, data))
		m.biases = append(m.biases, mat.NewVecDense(out, nil))
		m.w_grad = append(m.w_grad, mat.NewDense(in, out, nil))
		m.b_grad = append(m.b_grad, mat.NewVecDense(out, nil))
	}
	return m
}

// layer widths: features -> hidden... -> 1 (scalar edge cost)
func layer_sizes(numFeatures int, hidden []int) []int {
	sizes := append([]int{numFeatures}, hidden...)
	return append(sizes, 1)
}

// current lambda value
func (m *IRLModel) Lambda() float64 {
	return m.lamb[0]
}

// reset accumulated gradients
func (m *IRLModel) ZeroGrad() {
	for l := range m.w_grad {
		m.w_grad[l].Zero()
		m.b_grad[l].Zero()
	}
	m.lamb_grad[0] = 0
}

// forward pass over a stacked batch of edge feature rows; returns the
// flat predicted cost vector, one entry per edge row
func (m *IRLModel) Forward(x *mat.Dense) []float64 {
	m.acts = m.acts[:0]
	m.preacts = m.preacts[:0]

	a := x
	for l, w := range m.weights {
		m.acts = append(m.acts, a)
		rows, _ := a.Dims()
		_, out := w.Dims()
		z := mat.NewDense(rows, out, nil)
		z.Mul(a, w)
		for i := 0; i < rows; i++ {
			for j := 0; j < out; j++ {
				z.Set(i, j, z.At(i, j)+m.biases[l].AtVec(j))
			}
		}
		m.preacts = append(m.preacts, z)
		if l < len(m.weights)-1 {
			a = relu(z)
		} else {
			a = z
		}
	}

	rows, _ := a.Dims()
	m.out_rows = rows
	out := make([]float64, rows)
	for i := range out {
		out[i] = a.At(i, 0)
	}
	return out
}

// backward pass: grad is d(loss)/d(output), aligned with the last
// Forward call; parameter gradients accumulate until ZeroGrad
func (m *IRLModel) Backward(grad []float64) {
	if len(grad) != m.out_rows {
		panic(fmt.Sprintf("model: backward grad has %d rows, forward produced %d", len(grad), m.out_rows))
	}
	dz := mat.NewDense(len(grad), 1, append([]float64(nil), grad...))
	for l := len(m.weights) - 1; l >= 0; l-- {
		var wg mat.Dense
		wg.Mul(m.acts[l].T(), dz)
		m.w_grad[l].Add(m.w_grad[l], &wg)

		rows, cols := dz.Dims()
		for j := 0; j < cols; j++ {
			var sum float64
			for i := 0; i < rows; i++ {
				sum += dz.At(i, j)
			}
			m.b_grad[l].SetVec(j, m.b_grad[l].AtVec(j)+sum)
		}

		if l == 0 {
			break
		}
		var da mat.Dense
		da.Mul(dz, m.weights[l].T())
		pre := m.preacts[l-1]
		rr, cc := da.Dims()
		for i := 0; i < rr; i++ {
			for j := 0; j < cc; j++ {
				if pre.At(i, j) <= 0 {
					da.Set(i, j, 0)
				}
			}
		}
		dz = &da
	}
}

// accumulate d(loss)/d(lambda)
func (m *IRLModel) AccumulateLambdaGrad(g float64) {
	m.lamb_grad[0] += g
}

// parameter and gradient views in a stable order, lambda last
// the optimizer mutates these slices in place
func (m *IRLModel) params() ([][]float64, [][]float64) {
	var p, g [][]float64
	for l := range m.weights {
		p = append(p, m.weights[l].RawMatrix().Data)
		g = append(g, m.w_grad[l].RawMatrix().Data)
		p = append(p, m.biases[l].RawVector().Data)
		g = append(g, m.b_grad[l].RawVector().Data)
	}
	p = append(p, m.lamb)
	g = append(g, m.lamb_grad)
	return p, g
}

func relu(z *mat.Dense) *mat.Dense {
	rows, cols := z.Dims()
	a := mat.NewDense(rows, cols, nil)
	a.Apply(func(_, _ int, v float64) float64 { return math.Max(0, v) }, z)
	return a
}
