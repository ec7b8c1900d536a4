package forecast

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitScaler(t *testing.T) {
	tests := []struct {
		name    string
		series  []float64
		wantMin float64
		wantMax float64
		wantErr bool
	}{
		{name: "Typical series", series: []float64{3, 1, 4, 1, 5, 9, 2, 6}, wantMin: 1, wantMax: 9},
		{name: "Single value", series: []float64{7}, wantMin: 7, wantMax: 7},
		{name: "Empty series", series: nil, wantErr: true},
		{name: "NaN value", series: []float64{1, math.NaN()}, wantErr: true},
		{name: "Infinite value", series: []float64{1, math.Inf(1)}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FitScaler(tt.series)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMin, s.DataMin)
			assert.Equal(t, tt.wantMax, s.DataMax)
		})
	}
}

func TestMinMaxScaler_RoundTrip(t *testing.T) {
	series := []float64{100, 150, 125, 200, 175.5}
	s, err := FitScaler(series)
	require.NoError(t, err)

	scaled := s.TransformAll(series)
	for _, v := range scaled {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, 0.0, scaled[0])
	assert.Equal(t, 1.0, scaled[3])

	back := s.InverseAll(scaled)
	if diff := cmp.Diff(series, back, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMinMaxScaler_ConstantSeries(t *testing.T) {
	s, err := FitScaler([]float64{5, 5, 5})
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Transform(5))
	assert.Equal(t, 5.0, s.Inverse(0))
	assert.Equal(t, 6.0, s.Inverse(1))
}

func TestMinMaxScaler_OutOfRangeValues(t *testing.T) {
	s := &MinMaxScaler{DataMin: 10, DataMax: 20}

	assert.InDelta(t, 1.5, s.Transform(25), 1e-12)
	assert.InDelta(t, -0.5, s.Transform(5), 1e-12)
	assert.InDelta(t, 25.0, s.Inverse(1.5), 1e-12)
}

func TestMinMaxScaler_Validate(t *testing.T) {
	assert.NoError(t, (&MinMaxScaler{DataMin: 1, DataMax: 2}).Validate())
	assert.NoError(t, (&MinMaxScaler{DataMin: 2, DataMax: 2}).Validate())
	assert.Error(t, (&MinMaxScaler{DataMin: 3, DataMax: 2}).Validate())
	assert.Error(t, (&MinMaxScaler{DataMin: math.NaN(), DataMax: 2}).Validate())
	assert.Error(t, (&MinMaxScaler{DataMin: 0, DataMax: math.Inf(1)}).Validate())
}
