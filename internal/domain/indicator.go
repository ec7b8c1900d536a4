package domain

import "time"

// IndicatorRow holds the indicator values derived for one bar.
type IndicatorRow struct {
	Timestamp time.Time
	Close     float64

	RSI        float64 // Momentum oscillator
	MACD       float64 // Trend-convergence line
	MACDSignal float64
	MACDHist   float64
	BBUpper    float64 // Volatility bands
	BBMiddle   float64
	BBLower    float64
	EMAFast    float64 // 50-period EMA by default
	EMASlow    float64 // 200-period EMA by default
	ATR        float64 // Average true range
}

// IndicatorSnapshot is the indicator row of the most recent usable bar.
type IndicatorSnapshot = IndicatorRow
