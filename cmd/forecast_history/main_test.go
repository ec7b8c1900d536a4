package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"cryptoForecaster/internal/adapters/logger"
	"cryptoForecaster/internal/adapters/sqlite"
	"cryptoForecaster/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func seedJournal(t *testing.T, dbPath string, runs int) {
	t.Helper()
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: dbPath, Logger: logger.Nop()})
	require.NoError(t, err)
	defer repo.Close()

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < runs; i++ {
		source := domain.ModelSourceCached
		if i == 0 {
			source = domain.ModelSourceTrained
		}
		_, err := repo.SaveRun(context.Background(), &domain.ForecastRun{
			CreatedAt:   base.AddDate(0, 0, i),
			ModelSource: source,
			Result: &domain.ForecastResult{
				Symbol:         "BTCUSDT",
				CurrentPrice:   float64(100 + i),
				TrendDirection: domain.TrendUp,
				PredictedTrend: []float64{1, 2},
				MarketSheet:    domain.MarketSheet{Signal: domain.SignalNeutral, ConfidenceScore: 95},
			},
		})
		require.NoError(t, err)
	}
}

func TestRun_PrintsHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "forecasts.db")
	t.Setenv("REPORT_DB_PATH", dbPath)
	t.Setenv("LOG_LEVEL", "error")
	seedJournal(t, dbPath, 4)

	var stdout, stderr bytes.Buffer
	code := run([]string{"BTCUSDT", "-n", "2"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	out := gjson.Parse(stdout.String())
	require.True(t, out.IsArray())
	entries := out.Array()
	require.Len(t, entries, 2)
	assert.Equal(t, 103.0, entries[0].Get("report.current_price").Float())
	assert.Equal(t, "cached", entries[0].Get("model_source").String())
	assert.NotEmpty(t, entries[0].Get("run_id").String())
}

func TestRun_EmptyHistory(t *testing.T) {
	t.Setenv("REPORT_DB_PATH", filepath.Join(t.TempDir(), "forecasts.db"))
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"ETHUSDT"}, &stdout, &stderr))
	assert.Equal(t, "[]", strings.TrimSpace(stdout.String()))
}

func TestRun_BadArguments(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, run(nil, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"-n", "3"}, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"BTCUSDT", "-n", "0"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "Usage")
}
