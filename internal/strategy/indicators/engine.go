package indicators

import (
	"context"
	"fmt"

	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/ports"

	"github.com/markcheno/go-talib"
)

// Engine computes the indicator table over a full bar history.
type Engine struct {
	config Config
}

// NewEngine creates an indicator engine.
func NewEngine(config Config) (*Engine, error) {
	periods := []int{
		config.RSI.Period, config.MACDFast.Period, config.MACDSlow.Period, config.MACDSignal.Period,
		config.Bollinger.Period, config.EMAFast.Period, config.EMASlow.Period, config.ATR.Period,
	}
	for _, p := range periods {
		if p < 2 {
			return nil, fmt.Errorf("indicator periods must be at least 2, got %d", p)
		}
	}
	if config.MACDFast.Period >= config.MACDSlow.Period {
		return nil, fmt.Errorf("MACD fast period (%d) must be less than slow period (%d)", config.MACDFast.Period, config.MACDSlow.Period)
	}
	if config.Bollinger.StdDev <= 0 {
		return nil, fmt.Errorf("bollinger standard deviation multiplier must be positive")
	}
	return &Engine{config: config}, nil
}

// RequiredDataPoints returns the minimum number of bars that yields one usable row.
func (e *Engine) RequiredDataPoints() int {
	return e.config.WarmUp() + 1
}

// Compute returns one row per bar after dropping every bar where any indicator
// is still in its warm-up window. The result is ordered like the input.
func (e *Engine) Compute(ctx context.Context, bars []*domain.PriceBar) ([]domain.IndicatorRow, error) {
	if len(bars) < e.RequiredDataPoints() {
		return nil, fmt.Errorf("need %d bars for indicator warm-up, got %d: %w",
			e.RequiredDataPoints(), len(bars), ports.ErrInsufficientHistory)
	}

	n := len(bars)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	for i, b := range bars {
		highs[i] = b.High
		lows[i] = b.Low
		closes[i] = b.Close
	}

	c := e.config
	rsi := talib.Rsi(closes, c.RSI.Period)
	macd, macdSignal, macdHist := talib.Macd(closes, c.MACDFast.Period, c.MACDSlow.Period, c.MACDSignal.Period)
	bbUpper, bbMiddle, bbLower := talib.BBands(closes, c.Bollinger.Period, c.Bollinger.StdDev, c.Bollinger.StdDev, talib.SMA)
	emaFast := talib.Ema(closes, c.EMAFast.Period)
	emaSlow := talib.Ema(closes, c.EMASlow.Period)
	atr := talib.Atr(highs, lows, closes, c.ATR.Period)

	start := c.WarmUp()
	rows := make([]domain.IndicatorRow, 0, n-start)
	for i := start; i < n; i++ {
		rows = append(rows, domain.IndicatorRow{
			Timestamp:  bars[i].Timestamp,
			Close:      closes[i],
			RSI:        rsi[i],
			MACD:       macd[i],
			MACDSignal: macdSignal[i],
			MACDHist:   macdHist[i],
			BBUpper:    bbUpper[i],
			BBMiddle:   bbMiddle[i],
			BBLower:    bbLower[i],
			EMAFast:    emaFast[i],
			EMASlow:    emaSlow[i],
			ATR:        atr[i],
		})
	}
	return rows, nil
}

// Snapshot returns the most recent row.
func Snapshot(rows []domain.IndicatorRow) (domain.IndicatorSnapshot, error) {
	if len(rows) == 0 {
		return domain.IndicatorSnapshot{}, fmt.Errorf("no indicator rows: %w", ports.ErrInsufficientHistory)
	}
	return rows[len(rows)-1], nil
}

// CloseSeries extracts the closing prices of the cleaned rows.
func CloseSeries(rows []domain.IndicatorRow) []float64 {
	closes := make([]float64, len(rows))
	for i, r := range rows {
		closes[i] = r.Close
	}
	return closes
}
