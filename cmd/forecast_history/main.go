package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"cryptoForecaster/config"
	"cryptoForecaster/internal/adapters/logger"
	"cryptoForecaster/internal/adapters/sqlite"
	"cryptoForecaster/internal/domain"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// historyEntry is one journaled run as printed.
type historyEntry struct {
	RunID       string                 `json:"run_id"`
	CreatedAt   time.Time              `json:"created_at"`
	ModelSource domain.ModelSource     `json:"model_source"`
	Report      *domain.ForecastResult `json:"report"`
}

// run prints the most recent journaled forecasts of a symbol as a JSON array.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("forecast_history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("n", 10, "number of runs to show")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: forecast_history <SYMBOL> [-n N]")
		fs.PrintDefaults()
	}
	if len(args) < 1 || args[0] == "" || args[0][0] == '-' {
		fs.Usage()
		return 1
	}
	symbol := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return 1
	}
	if *limit < 1 {
		fmt.Fprintln(stderr, "-n must be positive")
		return 1
	}
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: Failed to load configuration: %v\n", err)
		return 1
	}
	appLogger := logger.New(stderr, cfg.LogLevel, logger.Format(cfg.LogFormat))

	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.ReportDBPath, Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to open forecast journal")
		return 1
	}
	defer repo.Close()

	runs, err := repo.FindBySymbol(ctx, symbol, *limit)
	if err != nil {
		appLogger.Error(ctx, err, "Failed to read forecast journal", map[string]interface{}{"symbol": symbol})
		return 1
	}

	entries := make([]historyEntry, 0, len(runs))
	for _, r := range runs {
		entries = append(entries, historyEntry{
			RunID:       r.RunID,
			CreatedAt:   r.CreatedAt,
			ModelSource: r.ModelSource,
			Report:      r.Result,
		})
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		appLogger.Error(ctx, err, "Failed to encode forecast history")
		return 1
	}
	return 0
}
