package marketdata

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/ports"
	"cryptoForecaster/internal/utils"
)

// Store implements ports.BarSource and ports.BarSink on symbol-keyed CSV files.
type Store struct {
	dir    string
	logger ports.Logger
}

// Config holds configuration for the CSV market data store.
type Config struct {
	Dir    string
	Logger ports.Logger
}

// NewStore creates a market data store rooted at cfg.Dir.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for market data store")
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return &Store{dir: dir, logger: cfg.Logger}, nil
}

// Path returns the file holding the bars of symbol.
func (s *Store) Path(symbol string) string {
	return filepath.Join(s.dir, fmt.Sprintf("market_data_%s.csv", symbol))
}

// LoadBars reads the bars of symbol.
func (s *Store) LoadBars(ctx context.Context, symbol string) ([]*domain.PriceBar, error) {
	path := s.Path(symbol)
	bars, err := utils.ReadBarsFromCSV(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("data file %s not found: %w", path, ports.ErrMissingInputData)
		}
		return nil, fmt.Errorf("reading %s: %w: %w", path, ports.ErrMalformedInput, err)
	}
	for _, b := range bars {
		b.Symbol = symbol
	}
	s.logger.Debug(ctx, "Loaded market data", map[string]interface{}{"symbol": symbol, "path": path, "bars": len(bars)})
	return bars, nil
}

// SaveBars writes the bars of symbol, replacing the previous file.
func (s *Store) SaveBars(ctx context.Context, symbol string, bars []*domain.PriceBar) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory '%s': %w", s.dir, err)
	}
	path := s.Path(symbol)
	if err := utils.WriteBarsToCSV(bars, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.logger.Info(ctx, "Saved market data", map[string]interface{}{"symbol": symbol, "path": path, "bars": len(bars)})
	return nil
}
