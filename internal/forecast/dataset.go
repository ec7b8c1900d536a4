package forecast

import (
	"fmt"

	"cryptoForecaster/internal/model"
)

// BuildDataset slides a window of length window over series, one step at a
// time, pairing each window with the value that follows it. A series of
// length N yields N-window-1 samples; the final window/target pair is not used.
func BuildDataset(series []float64, window int) ([]model.Sample, error) {
	if window < 1 {
		return nil, fmt.Errorf("window must be positive, got %d", window)
	}
	count := len(series) - window - 1
	if count < 1 {
		return nil, fmt.Errorf("series of length %d is too short for window %d", len(series), window)
	}
	samples := make([]model.Sample, count)
	for i := 0; i < count; i++ {
		w := make([]float64, window)
		copy(w, series[i:i+window])
		samples[i] = model.Sample{Window: w, Target: series[i+window]}
	}
	return samples, nil
}
