package forecast

import (
	"context"
	"fmt"
)

// Predictor maps an input window to the next scaled value.
type Predictor interface {
	Predict(window []float64) float64
}

// Window is an immutable fixed-length input window.
type Window struct {
	values []float64
}

// NewWindow copies values into a window.
func NewWindow(values []float64) Window {
	v := make([]float64, len(values))
	copy(v, values)
	return Window{values: v}
}

// Len returns the window length.
func (w Window) Len() int { return len(w.values) }

// Values returns a copy of the window contents, oldest first.
func (w Window) Values() []float64 {
	v := make([]float64, len(w.values))
	copy(v, w.values)
	return v
}

// Advance returns a new window without the oldest value and with next appended.
func (w Window) Advance(next float64) Window {
	v := make([]float64, len(w.values))
	copy(v, w.values[1:])
	v[len(v)-1] = next
	return Window{values: v}
}

// Recursive forecasts horizon steps ahead by feeding each prediction back
// into the window. Errors compound across steps; nothing bounds them.
// The returned values are in scaled space.
func Recursive(ctx context.Context, p Predictor, series []float64, window, horizon int) ([]float64, error) {
	if window < 1 || horizon < 1 {
		return nil, fmt.Errorf("window and horizon must be positive, got %d and %d", window, horizon)
	}
	if len(series) < window {
		return nil, fmt.Errorf("series of length %d cannot seed a window of %d", len(series), window)
	}

	w := NewWindow(series[len(series)-window:])
	out := make([]float64, 0, horizon)
	for step := 0; step < horizon; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := p.Predict(w.Values())
		out = append(out, next)
		w = w.Advance(next)
	}
	return out, nil
}
