package model

import (
	"fmt"
	"math/rand"
)

// Dense is a fully connected layer with linear activation.
type Dense struct {
	In      int       `json:"in"`
	Out     int       `json:"out"`
	Weights []float64 `json:"weights"` // Out x In
	Bias    []float64 `json:"bias"`
}

func newDense(in, out int, rng *rand.Rand) *Dense {
	return &Dense{
		In:      in,
		Out:     out,
		Weights: glorotUniform(rng, in*out, in, out),
		Bias:    make([]float64, out),
	}
}

func (d *Dense) validate() error {
	switch {
	case d.In < 1 || d.Out < 1:
		return fmt.Errorf("dense dimensions %dx%d must be positive", d.In, d.Out)
	case len(d.Weights) != d.In*d.Out:
		return fmt.Errorf("dense layer has %d weights, want %d", len(d.Weights), d.In*d.Out)
	case len(d.Bias) != d.Out:
		return fmt.Errorf("dense bias has %d weights, want %d", len(d.Bias), d.Out)
	}
	return checkFinite(d.Weights, d.Bias)
}

func (d *Dense) forward(x []float64) []float64 {
	y := make([]float64, d.Out)
	for r := range y {
		sum := d.Bias[r]
		row := d.Weights[r*d.In : (r+1)*d.In]
		for k, v := range x {
			sum += row[k] * v
		}
		y[r] = sum
	}
	return y
}

// backward accumulates gradients for input x and output gradient dy, and
// returns the gradient with respect to x.
func (d *Dense) backward(x, dy, gW, gB []float64) []float64 {
	dx := make([]float64, d.In)
	for r, g := range dy {
		gB[r] += g
		row := d.Weights[r*d.In : (r+1)*d.In]
		gRow := gW[r*d.In : (r+1)*d.In]
		for k, v := range x {
			gRow[k] += g * v
			dx[k] += row[k] * g
		}
	}
	return dx
}
