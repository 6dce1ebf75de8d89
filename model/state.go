package model

import "fmt"

// schema for persisted model state (trainable parameters only)
type State struct {
	NumFeatures int         `json:"num_features"`
	Hidden      []int       `json:"hidden"`
	Weights     [][]float64 `json:"weights"`
	Biases      [][]float64 `json:"biases"`
	Lambda      float64     `json:"lambda"`
}

// snapshot trainable state; returned slices are copies
func (m *IRLModel) State() State {
	s := State{
		NumFeatures: m.NumFeatures,
		Hidden:      append([]int{}, m.Hidden...),
		Lambda:      m.lamb[0],
	}
	for l := range m.weights {
		s.Weights = append(s.Weights, append([]float64{}, m.weights[l].RawMatrix().Data...))
		s.Biases = append(s.Biases, append([]float64{}, m.biases[l].RawVector().Data...))
	}
	return s
}

// restore trainable state into a model of matching architecture
func (m *IRLModel) LoadState(s State) error {
	if s.NumFeatures != m.NumFeatures {
		return fmt.Errorf("state has %d features, model has %d", s.NumFeatures, m.NumFeatures)
	}
	if len(s.Weights) != len(m.weights) || len(s.Biases) != len(m.biases) {
		return fmt.Errorf("state has %d layers, model has %d", len(s.Weights), len(m.weights))
	}
	for l := range m.weights {
		w := m.weights[l].RawMatrix().Data
		if len(s.Weights[l]) != len(w) {
			return fmt.Errorf("layer %d has %d weights, model expects %d", l, len(s.Weights[l]), len(w))
		}
		b := m.biases[l].RawVector().Data
		if len(s.Biases[l]) != len(b) {
			return fmt.Errorf("layer %d has %d biases, model expects %d", l, len(s.Biases[l]), len(b))
		}
		copy(w, s.Weights[l])
		copy(b, s.Biases[l])
	}
	m.lamb[0] = s.Lambda
	return nil
}
