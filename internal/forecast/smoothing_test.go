package forecast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestSmooth(t *testing.T) {
	p0, p1, p2 := 100.0, 110.0, 90.0
	first := 0.8*p0 + 0.2*p1

	tests := []struct {
		name   string
		points []float64
		factor float64
		want   []float64
	}{
		{
			name:   "Three points",
			points: []float64{p0, p1, p2},
			factor: 0.8,
			want:   []float64{p0, first, 0.8*first + 0.2*p2},
		},
		{name: "Single point", points: []float64{42}, factor: 0.8, want: []float64{42}},
		{name: "Empty", points: []float64{}, factor: 0.8, want: []float64{}},
		{name: "Zero factor is identity", points: []float64{1, 5, 3}, factor: 0, want: []float64{1, 5, 3}},
		{name: "Unit factor holds first value", points: []float64{1, 5, 3}, factor: 1, want: []float64{1, 1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Smooth(tt.points, tt.factor)
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("Smooth() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSmooth_DoesNotModifyInput(t *testing.T) {
	in := []float64{1, 2, 3}
	_ = Smooth(in, 0.8)
	assert.Equal(t, []float64{1, 2, 3}, in)
}
