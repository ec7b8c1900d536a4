package model

import (
	"fmt"
	"math"
	"math/rand"
)

// LSTM is a long short-term memory layer. Gate rows are stored in the order
// input, forget, cell, output; every matrix is flattened row-major.
type LSTM struct {
	InputSize int       `json:"input_size"`
	Units     int       `json:"units"`
	Kernel    []float64 `json:"kernel"`    // 4*Units x InputSize
	Recurrent []float64 `json:"recurrent"` // 4*Units x Units
	Bias      []float64 `json:"bias"`      // 4*Units
}

// lstmStep caches one timestep of the forward pass for backpropagation.
type lstmStep struct {
	x, hPrev, cPrev []float64
	i, f, g, o      []float64
	c, tanhC, h     []float64
}

func newLSTM(inputSize, units int, rng *rand.Rand) *LSTM {
	rows := 4 * units
	l := &LSTM{
		InputSize: inputSize,
		Units:     units,
		Kernel:    glorotUniform(rng, rows*inputSize, inputSize, rows),
		Recurrent: orthogonal(rng, rows, units),
		Bias:      make([]float64, rows),
	}
	for j := 0; j < units; j++ {
		l.Bias[units+j] = 1 // forget gate
	}
	return l
}

func (l *LSTM) validate() error {
	rows := 4 * l.Units
	switch {
	case l.InputSize < 1 || l.Units < 1:
		return fmt.Errorf("lstm dimensions %dx%d must be positive", l.InputSize, l.Units)
	case len(l.Kernel) != rows*l.InputSize:
		return fmt.Errorf("lstm kernel has %d weights, want %d", len(l.Kernel), rows*l.InputSize)
	case len(l.Recurrent) != rows*l.Units:
		return fmt.Errorf("lstm recurrent kernel has %d weights, want %d", len(l.Recurrent), rows*l.Units)
	case len(l.Bias) != rows:
		return fmt.Errorf("lstm bias has %d weights, want %d", len(l.Bias), rows)
	}
	return checkFinite(l.Kernel, l.Recurrent, l.Bias)
}

// forward runs the layer over xs and returns the per-step cache; the hidden
// output of step t is steps[t].h.
func (l *LSTM) forward(xs [][]float64) []lstmStep {
	h := make([]float64, l.Units)
	c := make([]float64, l.Units)
	steps := make([]lstmStep, len(xs))
	z := make([]float64, 4*l.Units)

	for t, x := range xs {
		for r := range z {
			sum := l.Bias[r]
			kRow := l.Kernel[r*l.InputSize : (r+1)*l.InputSize]
			for k, v := range x {
				sum += kRow[k] * v
			}
			uRow := l.Recurrent[r*l.Units : (r+1)*l.Units]
			for k, v := range h {
				sum += uRow[k] * v
			}
			z[r] = sum
		}

		s := lstmStep{
			x: x, hPrev: h, cPrev: c,
			i: make([]float64, l.Units), f: make([]float64, l.Units),
			g: make([]float64, l.Units), o: make([]float64, l.Units),
			c: make([]float64, l.Units), tanhC: make([]float64, l.Units),
			h: make([]float64, l.Units),
		}
		for j := 0; j < l.Units; j++ {
			s.i[j] = sigmoid(z[j])
			s.f[j] = sigmoid(z[l.Units+j])
			s.g[j] = math.Tanh(z[2*l.Units+j])
			s.o[j] = sigmoid(z[3*l.Units+j])
			s.c[j] = s.f[j]*c[j] + s.i[j]*s.g[j]
			s.tanhC[j] = math.Tanh(s.c[j])
			s.h[j] = s.o[j] * s.tanhC[j]
		}
		steps[t] = s
		h, c = s.h, s.c
	}
	return steps
}

// backward propagates dhs (gradient arriving at each step's hidden output,
// nil when none) through time, accumulating into gK, gU and gB. It returns
// the gradient with respect to each step's input.
func (l *LSTM) backward(steps []lstmStep, dhs [][]float64, gK, gU, gB []float64) [][]float64 {
	n := l.Units
	dxs := make([][]float64, len(steps))
	dhNext := make([]float64, n)
	dcNext := make([]float64, n)
	dz := make([]float64, 4*n)

	for t := len(steps) - 1; t >= 0; t-- {
		s := steps[t]
		for j := 0; j < n; j++ {
			dh := dhNext[j]
			if dhs[t] != nil {
				dh += dhs[t][j]
			}
			do := dh * s.tanhC[j]
			dc := dh*s.o[j]*(1-s.tanhC[j]*s.tanhC[j]) + dcNext[j]
			di := dc * s.g[j]
			dg := dc * s.i[j]
			df := dc * s.cPrev[j]

			dz[j] = di * s.i[j] * (1 - s.i[j])
			dz[n+j] = df * s.f[j] * (1 - s.f[j])
			dz[2*n+j] = dg * (1 - s.g[j]*s.g[j])
			dz[3*n+j] = do * s.o[j] * (1 - s.o[j])
			dcNext[j] = dc * s.f[j]
		}

		dx := make([]float64, l.InputSize)
		dhPrev := make([]float64, n)
		for r, d := range dz {
			if d == 0 {
				continue
			}
			gB[r] += d
			kRow := l.Kernel[r*l.InputSize : (r+1)*l.InputSize]
			gkRow := gK[r*l.InputSize : (r+1)*l.InputSize]
			for k, v := range s.x {
				gkRow[k] += d * v
				dx[k] += kRow[k] * d
			}
			uRow := l.Recurrent[r*n : (r+1)*n]
			guRow := gU[r*n : (r+1)*n]
			for k, v := range s.hPrev {
				guRow[k] += d * v
				dhPrev[k] += uRow[k] * d
			}
		}
		dxs[t] = dx
		dhNext = dhPrev
	}
	return dxs
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
