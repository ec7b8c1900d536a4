package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"

	"cryptoForecaster/config"
	"cryptoForecaster/internal/adapters/artifacts"
	"cryptoForecaster/internal/adapters/logger"
	"cryptoForecaster/internal/adapters/marketdata"
	"cryptoForecaster/internal/adapters/sqlite"
	"cryptoForecaster/internal/app"
	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/ports"
	"cryptoForecaster/internal/strategy"
	"cryptoForecaster/internal/strategy/indicators"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one forecast and writes exactly one JSON record to stdout.
// Logs go to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || args[0] == "" {
		emit(stdout, domain.ErrorRecord{Error: "Usage: cryptoForecaster <SYMBOL>"})
		return 1
	}
	symbol := args[0]
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		emit(stdout, domain.ErrorRecord{Error: err.Error()})
		return 1
	}

	// 2. Initialize Logger
	appLogger := logger.New(stderr, cfg.LogLevel, logger.Format(cfg.LogFormat))
	appLogger.Debug(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel})

	// 3. Initialize Adapters
	bars, err := marketdata.NewStore(marketdata.Config{Dir: cfg.DataDir, Logger: appLogger})
	if err != nil {
		return fail(ctx, stdout, appLogger, err, "Failed to initialize market data store")
	}
	store, err := artifacts.NewStore(artifacts.Config{Dir: cfg.ModelsDir, Logger: appLogger})
	if err != nil {
		return fail(ctx, stdout, appLogger, err, "Failed to initialize artifact store")
	}

	var journal ports.ReportRepository
	if cfg.ReportJournal {
		repo, err := sqlite.NewRepository(sqlite.Config{DBPath: cfg.ReportDBPath, Logger: appLogger})
		if err != nil {
			appLogger.Warn(ctx, "Forecast journal disabled", map[string]interface{}{"error": err.Error()})
		} else {
			defer func() {
				if err := repo.Close(); err != nil {
					appLogger.Error(ctx, err, "Error closing forecast journal")
				}
			}()
			journal = repo
		}
	}

	// 4. Initialize Indicators and Strategy
	engine, err := indicators.NewEngine(indicators.DefaultConfig())
	if err != nil {
		return fail(ctx, stdout, appLogger, err, "Failed to initialize indicator engine")
	}
	strat, err := strategy.New(strategy.Config{
		RSIStrongOversold:   cfg.SignalRSIStrongOversold,
		RSIOversold:         cfg.SignalRSIOversold,
		RSIOverbought:       cfg.SignalRSIOverbought,
		RSIStrongOverbought: cfg.SignalRSIStrongOverbought,
	}, appLogger)
	if err != nil {
		return fail(ctx, stdout, appLogger, err, "Failed to initialize signal strategy")
	}

	// 5. Initialize Application Service
	service, err := app.NewForecastService(cfg, appLogger, bars, store, journal, engine, strat,
		rand.New(rand.NewSource(cfg.RandomSeed)))
	if err != nil {
		return fail(ctx, stdout, appLogger, err, "Failed to initialize forecast service")
	}

	// 6. Run
	result, err := service.Run(ctx, symbol)
	if err != nil {
		if errors.Is(err, ports.ErrMissingInputData) || errors.Is(err, ports.ErrInsufficientHistory) {
			appLogger.Warn(ctx, "Forecast not produced", map[string]interface{}{"symbol": symbol, "reason": err.Error()})
			emit(stdout, domain.ErrorRecord{Error: err.Error()})
			return 0
		}
		return fail(ctx, stdout, appLogger, err, "Forecast failed")
	}
	if err := emit(stdout, result); err != nil {
		appLogger.Error(ctx, err, "Failed to encode forecast report", map[string]interface{}{"symbol": symbol})
		return 1
	}
	return 0
}

func fail(ctx context.Context, stdout io.Writer, l ports.Logger, err error, msg string) int {
	l.Error(ctx, err, msg)
	emit(stdout, domain.ErrorRecord{Error: err.Error()})
	return 1
}

// emit writes record as one JSON line. If record cannot be encoded an error
// record is written instead and the encoding error is returned.
func emit(w io.Writer, record interface{}) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
