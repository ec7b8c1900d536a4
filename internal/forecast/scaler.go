package forecast

import (
	"errors"
	"fmt"
	"math"
)

// MinMaxScaler linearly maps values into [0,1] using bounds fitted once.
// The fitted bounds are persisted with the model and reused verbatim, so
// later data may scale outside [0,1].
type MinMaxScaler struct {
	DataMin float64 `json:"data_min"`
	DataMax float64 `json:"data_max"`
}

// FitScaler fits a scaler over the full series.
func FitScaler(series []float64) (*MinMaxScaler, error) {
	if len(series) == 0 {
		return nil, errors.New("cannot fit scaler on an empty series")
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range series {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("cannot fit scaler on non-finite value %v", v)
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return &MinMaxScaler{DataMin: lo, DataMax: hi}, nil
}

// Validate reports whether the bounds are usable.
func (s *MinMaxScaler) Validate() error {
	if math.IsNaN(s.DataMin) || math.IsNaN(s.DataMax) || math.IsInf(s.DataMin, 0) || math.IsInf(s.DataMax, 0) {
		return errors.New("scaler bounds must be finite")
	}
	if s.DataMin > s.DataMax {
		return fmt.Errorf("scaler min %v exceeds max %v", s.DataMin, s.DataMax)
	}
	return nil
}

// span is the fitted range; a constant series scales by 1.
func (s *MinMaxScaler) span() float64 {
	if r := s.DataMax - s.DataMin; r != 0 {
		return r
	}
	return 1
}

// Transform maps a price into scaled space.
func (s *MinMaxScaler) Transform(v float64) float64 {
	return (v - s.DataMin) / s.span()
}

// Inverse maps a scaled value back to price units.
func (s *MinMaxScaler) Inverse(v float64) float64 {
	return v*s.span() + s.DataMin
}

// TransformAll scales a whole series.
func (s *MinMaxScaler) TransformAll(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = s.Transform(v)
	}
	return out
}

// InverseAll unscales a whole series.
func (s *MinMaxScaler) InverseAll(series []float64) []float64 {
	out := make([]float64, len(series))
	for i, v := range series {
		out[i] = s.Inverse(v)
	}
	return out
}
