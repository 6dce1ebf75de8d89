package model

import "math"

// Adam optimizer over all trainable parameters, lambda included
type Adam struct {
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64

	m [][]float64
	v [][]float64
	t int
}

func NewAdam(lr float64) *Adam {
	return &Adam{
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
	}
}

// apply one update from the model's accumulated gradients
func (o *Adam) Step(model *IRLModel) {
	params, grads := model.params()
	if o.m == nil {
		o.m = make([][]float64, len(params))
		o.v = make([][]float64, len(params))
		for i, p := range params {
			o.m[i] = make([]float64, len(p))
			o.v[i] = make([]float64, len(p))
		}
	}
	o.t++
	bc1 := 1 - math.Pow(o.Beta1, float64(o.t))
	bc2 := 1 - math.Pow(o.Beta2, float64(o.t))

	for i, p := range params {
		g := grads[i]
		for j := range p {
			o.m[i][j] = o.Beta1*o.m[i][j] + (1-o.Beta1)*g[j]
			o.v[i][j] = o.Beta2*o.v[i][j] + (1-o.Beta2)*g[j]*g[j]
			mhat := o.m[i][j] / bc1
			vhat := o.v[i][j] / bc2
			p[j] -= o.LR * mhat / (math.Sqrt(vhat) + o.Eps)
		}
	}
}
