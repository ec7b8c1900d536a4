package model

import (
	"fmt"
	"math"
	"math/rand"
)

// glorotUniform draws n weights from U(-limit, limit) with
// limit = sqrt(6 / (fanIn + fanOut)).
func glorotUniform(rng *rand.Rand, n, fanIn, fanOut int) []float64 {
	limit := math.Sqrt(6 / float64(fanIn+fanOut))
	w := make([]float64, n)
	for i := range w {
		w[i] = (rng.Float64()*2 - 1) * limit
	}
	return w
}

// orthogonal returns a rows x cols row-major matrix (rows >= cols) whose
// columns are orthonormal, built by Gram-Schmidt over Gaussian vectors.
func orthogonal(rng *rand.Rand, rows, cols int) []float64 {
	basis := make([][]float64, 0, cols)
	for len(basis) < cols {
		v := make([]float64, rows)
		for i := range v {
			v[i] = rng.NormFloat64()
		}
		for _, b := range basis {
			dot := 0.0
			for i := range v {
				dot += v[i] * b[i]
			}
			for i := range v {
				v[i] -= dot * b[i]
			}
		}
		norm := 0.0
		for _, x := range v {
			norm += x * x
		}
		norm = math.Sqrt(norm)
		if norm < 1e-8 {
			continue
		}
		for i := range v {
			v[i] /= norm
		}
		basis = append(basis, v)
	}

	w := make([]float64, rows*cols)
	for c, b := range basis {
		for r := 0; r < rows; r++ {
			w[r*cols+c] = b[r]
		}
	}
	return w
}

// dropoutMask returns an inverted-dropout mask: each element is 0 with
// probability rate, otherwise 1/(1-rate).
func dropoutMask(rng *rand.Rand, n int, rate float64) []float64 {
	m := make([]float64, n)
	keep := 1 - rate
	for i := range m {
		if rate == 0 || rng.Float64() >= rate {
			m[i] = 1 / keep
		}
	}
	return m
}

func checkFinite(slices ...[]float64) error {
	for _, s := range slices {
		for _, v := range s {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite weight %v", v)
			}
		}
	}
	return nil
}
