package model

import "math"

// adam implements the Adam optimizer with bias correction folded into the
// step size.
type adam struct {
	lr, beta1, beta2, eps float64
	t                     int
	m, v                  [][]float64
}

func newAdam(lr float64, params [][]float64) *adam {
	a := &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-7}
	a.m = zerosLike(params)
	a.v = zerosLike(params)
	return a
}

func (a *adam) step(params, grads [][]float64) {
	a.t++
	t := float64(a.t)
	lr := a.lr * math.Sqrt(1-math.Pow(a.beta2, t)) / (1 - math.Pow(a.beta1, t))
	for p := range params {
		w, g, m, v := params[p], grads[p], a.m[p], a.v[p]
		for i := range w {
			m[i] = a.beta1*m[i] + (1-a.beta1)*g[i]
			v[i] = a.beta2*v[i] + (1-a.beta2)*g[i]*g[i]
			w[i] -= lr * m[i] / (math.Sqrt(v[i]) + a.eps)
		}
	}
}

func zerosLike(params [][]float64) [][]float64 {
	out := make([][]float64, len(params))
	for i, p := range params {
		out[i] = make([]float64, len(p))
	}
	return out
}

func resetGrads(grads [][]float64) {
	for _, g := range grads {
		for i := range g {
			g[i] = 0
		}
	}
}
