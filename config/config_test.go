package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "models", cfg.ModelsDir)
	assert.Equal(t, 200, cfg.MinHistory)
	assert.Equal(t, 60, cfg.ForecastWindow)
	assert.Equal(t, 30, cfg.ForecastHorizon)
	assert.Equal(t, 0.8, cfg.SmoothingFactor)
	assert.Equal(t, 95.0, cfg.CachedConfidence)
	assert.Equal(t, 50, cfg.ModelUnits)
	assert.Equal(t, 25, cfg.ModelDenseUnits)
	assert.Equal(t, 0.2, cfg.ModelDropout)
	assert.Equal(t, 5, cfg.TrainEpochs)
	assert.Equal(t, 32, cfg.TrainBatchSize)
	assert.Equal(t, 0.001, cfg.TrainLearningRate)
	assert.Equal(t, int64(42), cfg.RandomSeed)
	assert.Equal(t, 30.0, cfg.SignalRSIStrongOversold)
	assert.Equal(t, 70.0, cfg.SignalRSIStrongOverbought)
	assert.True(t, cfg.ReportJournal)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("MODELS_DIR", "/tmp/artifacts")
	t.Setenv("TRAIN_EPOCHS", "12")
	t.Setenv("SMOOTHING_FACTOR", "0.5")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("REPORT_JOURNAL", "false")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/artifacts", cfg.ModelsDir)
	assert.Equal(t, 12, cfg.TrainEpochs)
	assert.Equal(t, 0.5, cfg.SmoothingFactor)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.ReportJournal)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "non-numeric epochs",
			env:     map[string]string{"TRAIN_EPOCHS": "five"},
			wantErr: "invalid integer value 'five' for key TRAIN_EPOCHS",
		},
		{
			name:    "smoothing factor out of range",
			env:     map[string]string{"SMOOTHING_FACTOR": "1.5"},
			wantErr: "SmoothingFactor failed 'lt=1'",
		},
		{
			name:    "unknown log level",
			env:     map[string]string{"LOG_LEVEL": "trace"},
			wantErr: "LogLevel failed 'oneof=debug info warn error'",
		},
		{
			name:    "inverted oversold thresholds",
			env:     map[string]string{"SIGNAL_RSI_STRONG_OVERSOLD": "45"},
			wantErr: "SIGNAL_RSI_STRONG_OVERSOLD must not exceed SIGNAL_RSI_OVERSOLD",
		},
		{
			name:    "zero batch size",
			env:     map[string]string{"TRAIN_BATCH_SIZE": "0"},
			wantErr: "TrainBatchSize failed 'gte=1'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
