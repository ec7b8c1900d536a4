package model

import (
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tinyConfig() Config {
	return Config{
		WindowSize:   5,
		Units:        3,
		DenseUnits:   2,
		DropoutRate:  0,
		Epochs:       1,
		BatchSize:    4,
		LearningRate: 0.001,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{name: "Default config", modify: func(*Config) {}},
		{name: "Zero window", modify: func(c *Config) { c.WindowSize = 0 }, wantErr: true},
		{name: "Zero units", modify: func(c *Config) { c.Units = 0 }, wantErr: true},
		{name: "Zero dense units", modify: func(c *Config) { c.DenseUnits = 0 }, wantErr: true},
		{name: "Dropout of one", modify: func(c *Config) { c.DropoutRate = 1 }, wantErr: true},
		{name: "Negative dropout", modify: func(c *Config) { c.DropoutRate = -0.1 }, wantErr: true},
		{name: "Zero epochs", modify: func(c *Config) { c.Epochs = 0 }, wantErr: true},
		{name: "Zero batch", modify: func(c *Config) { c.BatchSize = 0 }, wantErr: true},
		{name: "Zero learning rate", modify: func(c *Config) { c.LearningRate = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNew_Architecture(t *testing.T) {
	net, err := New(DefaultConfig(), rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	require.NoError(t, net.Validate())

	assert.Equal(t, 1, net.Recurrent1.InputSize)
	assert.Equal(t, 50, net.Recurrent1.Units)
	assert.Equal(t, 50, net.Recurrent2.InputSize)
	assert.Equal(t, 50, net.Recurrent2.Units)
	assert.Equal(t, 25, net.Hidden.Out)
	assert.Equal(t, 1, net.Output.Out)
	assert.Equal(t, 60, net.WindowSize())

	// forget gate bias starts at one, the other gates at zero
	for j := 0; j < 50; j++ {
		assert.Equal(t, 0.0, net.Recurrent1.Bias[j])
		assert.Equal(t, 1.0, net.Recurrent1.Bias[50+j])
		assert.Equal(t, 0.0, net.Recurrent1.Bias[100+j])
	}
}

func TestNew_RequiresRandomSource(t *testing.T) {
	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}

func TestOrthogonal(t *testing.T) {
	rows, cols := 12, 3
	w := orthogonal(rand.New(rand.NewSource(1)), rows, cols)

	for a := 0; a < cols; a++ {
		for b := 0; b < cols; b++ {
			dot := 0.0
			for r := 0; r < rows; r++ {
				dot += w[r*cols+a] * w[r*cols+b]
			}
			want := 0.0
			if a == b {
				want = 1
			}
			assert.InDelta(t, want, dot, 1e-9, "columns %d and %d", a, b)
		}
	}
}

func TestDropoutMask(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	ones := dropoutMask(rng, 10, 0)
	for _, v := range ones {
		assert.Equal(t, 1.0, v)
	}

	m := dropoutMask(rng, 10000, 0.2)
	dropped := 0
	for _, v := range m {
		if v == 0 {
			dropped++
		} else {
			assert.InDelta(t, 1.25, v, 1e-12)
		}
	}
	assert.InDelta(t, 2000, dropped, 200)
}

func TestNew_SameSeedSameWeights(t *testing.T) {
	a, err := New(tinyConfig(), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := New(tinyConfig(), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	c, err := New(tinyConfig(), rand.New(rand.NewSource(8)))
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(a, b))
	assert.NotEmpty(t, cmp.Diff(a, c))
}

func TestNetwork_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Network)
	}{
		{name: "Missing layer", modify: func(n *Network) { n.Hidden = nil }},
		{name: "Truncated kernel", modify: func(n *Network) { n.Recurrent2.Kernel = n.Recurrent2.Kernel[:3] }},
		{name: "Mismatched dense input", modify: func(n *Network) { n.Output.In = 7 }},
		{name: "Wide output", modify: func(n *Network) {
			n.Output.Out = 2
			n.Output.Weights = append(n.Output.Weights, n.Output.Weights...)
			n.Output.Bias = append(n.Output.Bias, 0)
		}},
		{name: "NaN weight", modify: func(n *Network) { n.Hidden.Bias[0] = math.NaN() }},
		{name: "Zero window", modify: func(n *Network) { n.Config.WindowSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := New(tinyConfig(), rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			tt.modify(net)
			assert.Error(t, net.Validate())
		})
	}
}

func TestNetwork_JSONRoundTripPredictsIdentically(t *testing.T) {
	net, err := New(tinyConfig(), rand.New(rand.NewSource(11)))
	require.NoError(t, err)
	window := []float64{0.1, 0.4, 0.35, 0.8, 0.6}

	data, err := json.Marshal(net)
	require.NoError(t, err)
	var loaded Network
	require.NoError(t, json.Unmarshal(data, &loaded))
	require.NoError(t, loaded.Validate())

	assert.Equal(t, net.Predict(window), loaded.Predict(window))
}

func TestNetwork_PredictIsDeterministic(t *testing.T) {
	cfg := tinyConfig()
	cfg.DropoutRate = 0.5
	net, err := New(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	window := []float64{0.2, 0.3, 0.4, 0.5, 0.6}

	first := net.Predict(window)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, net.Predict(window), "dropout must be inactive at inference")
	}
}

// TestNetwork_GradientCheck compares backpropagated gradients with central
// finite differences of the squared error on a single sample.
func TestNetwork_GradientCheck(t *testing.T) {
	net, err := New(tinyConfig(), rand.New(rand.NewSource(21)))
	require.NoError(t, err)
	// perturb so forget biases and zero biases are off their initial values
	rng := rand.New(rand.NewSource(22))
	for _, p := range net.params() {
		for i := range p {
			p[i] += rng.Float64()*0.2 - 0.1
		}
	}

	sample := Sample{Window: []float64{0.1, 0.5, 0.3, 0.9, 0.7}, Target: 0.4}
	loss := func() float64 {
		d := net.Predict(sample.Window) - sample.Target
		return d * d
	}

	pred, cache := net.forward(sample.Window, nil)
	grads := zerosLike(net.params())
	net.backward(cache, nil, 2*(pred-sample.Target), grads)

	const eps = 1e-6
	for p, param := range net.params() {
		for i := range param {
			orig := param[i]
			param[i] = orig + eps
			plus := loss()
			param[i] = orig - eps
			minus := loss()
			param[i] = orig

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, grads[p][i], 1e-6+1e-4*math.Abs(numeric), "param %d index %d", p, i)
		}
	}
}

func TestNetwork_GradientCheckWithDropout(t *testing.T) {
	cfg := tinyConfig()
	cfg.DropoutRate = 0.3
	net, err := New(cfg, rand.New(rand.NewSource(31)))
	require.NoError(t, err)

	sample := Sample{Window: []float64{0.9, 0.2, 0.4, 0.1, 0.5}, Target: 0.6}
	masks := net.newMasks(rand.New(rand.NewSource(32)), len(sample.Window))
	loss := func() float64 {
		pred, _ := net.forward(sample.Window, masks)
		d := pred - sample.Target
		return d * d
	}

	pred, cache := net.forward(sample.Window, masks)
	grads := zerosLike(net.params())
	net.backward(cache, masks, 2*(pred-sample.Target), grads)

	const eps = 1e-6
	for p, param := range net.params() {
		for i := range param {
			orig := param[i]
			param[i] = orig + eps
			plus := loss()
			param[i] = orig - eps
			minus := loss()
			param[i] = orig

			numeric := (plus - minus) / (2 * eps)
			assert.InDelta(t, numeric, grads[p][i], 1e-6+1e-4*math.Abs(numeric), "param %d index %d", p, i)
		}
	}
}

func TestNetwork_ForwardMatchesPredictWithoutMasks(t *testing.T) {
	net, err := New(tinyConfig(), rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	window := []float64{0.5, 0.5, 0.5, 0.5, 0.5}

	pred, _ := net.forward(window, nil)
	assert.Equal(t, pred, net.Predict(window))
}
