// Package model implements the forecast network: two stacked LSTM layers with
// dropout followed by two dense layers, trained with Adam on mean squared error.
package model

import (
	"errors"
	"fmt"
	"math/rand"
)

// Config describes the network architecture and training schedule.
type Config struct {
	WindowSize   int     `json:"window_size"`
	Units        int     `json:"units"`
	DenseUnits   int     `json:"dense_units"`
	DropoutRate  float64 `json:"dropout_rate"`
	Epochs       int     `json:"epochs"`
	BatchSize    int     `json:"batch_size"`
	LearningRate float64 `json:"learning_rate"`
}

// DefaultConfig returns the production architecture.
func DefaultConfig() Config {
	return Config{
		WindowSize:   60,
		Units:        50,
		DenseUnits:   25,
		DropoutRate:  0.2,
		Epochs:       5,
		BatchSize:    32,
		LearningRate: 0.001,
	}
}

// Validate checks that the configuration describes a buildable network.
func (c Config) Validate() error {
	var errs []error
	if c.WindowSize < 1 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %d", c.WindowSize))
	}
	if c.Units < 1 {
		errs = append(errs, fmt.Errorf("units must be positive, got %d", c.Units))
	}
	if c.DenseUnits < 1 {
		errs = append(errs, fmt.Errorf("dense units must be positive, got %d", c.DenseUnits))
	}
	if c.DropoutRate < 0 || c.DropoutRate >= 1 {
		errs = append(errs, fmt.Errorf("dropout rate must be in [0,1), got %v", c.DropoutRate))
	}
	if c.Epochs < 1 {
		errs = append(errs, fmt.Errorf("epochs must be positive, got %d", c.Epochs))
	}
	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch size must be positive, got %d", c.BatchSize))
	}
	if c.LearningRate <= 0 {
		errs = append(errs, fmt.Errorf("learning rate must be positive, got %v", c.LearningRate))
	}
	return errors.Join(errs...)
}

// Network maps a window of scaled closes to the next scaled close.
// Its exported fields are the complete persisted state.
type Network struct {
	Config     Config `json:"config"`
	Recurrent1 *LSTM  `json:"lstm_1"`
	Recurrent2 *LSTM  `json:"lstm_2"`
	Hidden     *Dense `json:"dense_1"`
	Output     *Dense `json:"dense_2"`
}

// New builds an untrained network with weights drawn from rng.
func New(cfg Config, rng *rand.Rand) (*Network, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	return &Network{
		Config:     cfg,
		Recurrent1: newLSTM(1, cfg.Units, rng),
		Recurrent2: newLSTM(cfg.Units, cfg.Units, rng),
		Hidden:     newDense(cfg.Units, cfg.DenseUnits, rng),
		Output:     newDense(cfg.DenseUnits, 1, rng),
	}, nil
}

// Validate reports whether a decoded network is internally consistent.
func (n *Network) Validate() error {
	if n.Recurrent1 == nil || n.Recurrent2 == nil || n.Hidden == nil || n.Output == nil {
		return errors.New("network is missing layers")
	}
	if n.Config.WindowSize < 1 {
		return fmt.Errorf("window size must be positive, got %d", n.Config.WindowSize)
	}
	for name, l := range map[string]*LSTM{"lstm_1": n.Recurrent1, "lstm_2": n.Recurrent2} {
		if err := l.validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	for name, d := range map[string]*Dense{"dense_1": n.Hidden, "dense_2": n.Output} {
		if err := d.validate(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	switch {
	case n.Recurrent1.InputSize != 1:
		return fmt.Errorf("lstm_1 input size %d, want 1", n.Recurrent1.InputSize)
	case n.Recurrent2.InputSize != n.Recurrent1.Units:
		return fmt.Errorf("lstm_2 input size %d does not match lstm_1 units %d", n.Recurrent2.InputSize, n.Recurrent1.Units)
	case n.Hidden.In != n.Recurrent2.Units:
		return fmt.Errorf("dense_1 input %d does not match lstm_2 units %d", n.Hidden.In, n.Recurrent2.Units)
	case n.Output.In != n.Hidden.Out:
		return fmt.Errorf("dense_2 input %d does not match dense_1 output %d", n.Output.In, n.Hidden.Out)
	case n.Output.Out != 1:
		return fmt.Errorf("dense_2 output %d, want 1", n.Output.Out)
	}
	return nil
}

// WindowSize is the input length the network was built for.
func (n *Network) WindowSize() int {
	return n.Config.WindowSize
}

// Predict returns the next scaled value for window. Dropout is inactive.
func (n *Network) Predict(window []float64) float64 {
	pred, _ := n.forward(window, nil)
	return pred
}

// dropoutMasks holds the masks of one training pass.
type dropoutMasks struct {
	sequence [][]float64 // per timestep, over the first layer's output
	final    []float64   // over the second layer's final state
}

type forwardCache struct {
	steps1 []lstmStep
	seq    [][]float64 // first layer output after dropout
	steps2 []lstmStep
	final  []float64 // second layer final state after dropout
	hidden []float64
}

func (n *Network) newMasks(rng *rand.Rand, steps int) *dropoutMasks {
	m := &dropoutMasks{sequence: make([][]float64, steps)}
	for t := range m.sequence {
		m.sequence[t] = dropoutMask(rng, n.Recurrent1.Units, n.Config.DropoutRate)
	}
	m.final = dropoutMask(rng, n.Recurrent2.Units, n.Config.DropoutRate)
	return m
}

func (n *Network) forward(window []float64, masks *dropoutMasks) (float64, *forwardCache) {
	xs := make([][]float64, len(window))
	for t, v := range window {
		xs[t] = []float64{v}
	}

	c := &forwardCache{}
	c.steps1 = n.Recurrent1.forward(xs)
	c.seq = make([][]float64, len(c.steps1))
	for t, s := range c.steps1 {
		c.seq[t] = s.h
		if masks != nil {
			c.seq[t] = mul(s.h, masks.sequence[t])
		}
	}

	c.steps2 = n.Recurrent2.forward(c.seq)
	c.final = c.steps2[len(c.steps2)-1].h
	if masks != nil {
		c.final = mul(c.final, masks.final)
	}

	c.hidden = n.Hidden.forward(c.final)
	return n.Output.forward(c.hidden)[0], c
}

// backward accumulates parameter gradients for an output gradient dPred.
// grads is laid out like params().
func (n *Network) backward(c *forwardCache, masks *dropoutMasks, dPred float64, grads [][]float64) {
	dHidden := n.Output.backward(c.hidden, []float64{dPred}, grads[8], grads[9])
	dFinal := n.Hidden.backward(c.final, dHidden, grads[6], grads[7])
	if masks != nil {
		dFinal = mul(dFinal, masks.final)
	}

	dhs2 := make([][]float64, len(c.steps2))
	dhs2[len(dhs2)-1] = dFinal
	dSeq := n.Recurrent2.backward(c.steps2, dhs2, grads[3], grads[4], grads[5])
	if masks != nil {
		for t := range dSeq {
			dSeq[t] = mul(dSeq[t], masks.sequence[t])
		}
	}
	n.Recurrent1.backward(c.steps1, dSeq, grads[0], grads[1], grads[2])
}

// params lists every trainable slice in a fixed order.
func (n *Network) params() [][]float64 {
	return [][]float64{
		n.Recurrent1.Kernel, n.Recurrent1.Recurrent, n.Recurrent1.Bias,
		n.Recurrent2.Kernel, n.Recurrent2.Recurrent, n.Recurrent2.Bias,
		n.Hidden.Weights, n.Hidden.Bias,
		n.Output.Weights, n.Output.Bias,
	}
}

func mul(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] * b[i]
	}
	return out
}
