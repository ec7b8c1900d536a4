package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cryptoForecaster/config"
	"cryptoForecaster/internal/adapters/binanceclient"
	"cryptoForecaster/internal/adapters/logger"
	"cryptoForecaster/internal/adapters/marketdata"
	"cryptoForecaster/internal/ports"
	"cryptoForecaster/internal/utils"
)

var errNoData = errors.New("no data received")

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run downloads the last FETCH_DAYS bars of the symbol and writes them to
// DATA_DIR/market_data_<SYMBOL>.csv.
func run(args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 || args[0] == "" {
		fmt.Fprintln(stderr, "Usage: fetch_klines <SYMBOL>")
		return 1
	}
	symbol, err := utils.NormalizeSymbol(args[0])
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: %v\n", err)
		return 1
	}
	ctx := context.Background()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "FATAL: Failed to load configuration: %v\n", err)
		return 1
	}

	// 2. Initialize Logger
	appLogger := logger.New(stderr, cfg.LogLevel, logger.Format(cfg.LogFormat))

	// 3. Initialize Exchange Client (Binance Adapter) and market data store
	binanceClient, err := binanceclient.New(binanceclient.Config{
		APIKey:    cfg.APIKey,
		SecretKey: cfg.SecretKey,
		BaseURL:   cfg.BinanceURL,
		Logger:    appLogger,
	})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize Binance client")
		return 1
	}
	store, err := marketdata.NewStore(marketdata.Config{Dir: cfg.DataDir, Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize market data store")
		return 1
	}

	// 4. Fetch and persist
	end := time.Now().UTC()
	n, err := fetch(ctx, binanceClient, store, appLogger, symbol, cfg.FetchInterval, end.AddDate(0, 0, -cfg.FetchDays), end)
	if err != nil {
		appLogger.Error(ctx, err, "Fetching klines failed", map[string]interface{}{"symbol": symbol})
		return 1
	}
	fmt.Fprintf(stdout, "Saved %d bars to %s\n", n, store.Path(symbol))
	return 0
}

// fetch checks exchange connectivity, downloads the bars of symbol between
// start and end and hands them to sink. It returns the number of bars saved.
func fetch(ctx context.Context, src ports.KlineSource, sink ports.BarSink, l ports.Logger,
	symbol, interval string, start, end time.Time) (int, error) {
	if err := src.Ping(ctx); err != nil {
		return 0, fmt.Errorf("exchange connectivity check: %w", err)
	}

	l.Info(ctx, "Fetching klines", map[string]interface{}{
		"symbol": symbol, "interval": interval, "start": start, "end": end,
	})
	bars, err := src.GetKlinesRange(ctx, symbol, interval, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetching klines: %w", err)
	}
	if len(bars) == 0 {
		return 0, errNoData
	}

	if err := sink.SaveBars(ctx, symbol, bars); err != nil {
		return 0, fmt.Errorf("writing bars: %w", err)
	}
	return len(bars), nil
}
