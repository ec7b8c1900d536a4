package app

import (
	"math"

	"cryptoForecaster/internal/domain"

	"github.com/shopspring/decimal"
)

// ReportInput collects everything the report is built from.
type ReportInput struct {
	Symbol     string
	Snapshot   domain.IndicatorSnapshot
	Smoothed   []float64
	Signal     domain.Signal
	Trend      domain.TrendDirection
	Confidence float64
}

// AssembleReport builds the output record. Market sheet values are rounded
// to two decimals; prices and the forecast sequence are left as computed.
func AssembleReport(in ReportInput) *domain.ForecastResult {
	trend := make([]float64, len(in.Smoothed))
	copy(trend, in.Smoothed)

	var predicted float64
	if len(trend) > 0 {
		predicted = trend[len(trend)-1]
	}

	return &domain.ForecastResult{
		Symbol:            in.Symbol,
		CurrentPrice:      in.Snapshot.Close,
		PredictedPrice30d: predicted,
		TrendDirection:    in.Trend,
		PredictedTrend:    trend,
		MarketSheet: domain.MarketSheet{
			Signal:          in.Signal,
			ConfidenceScore: round2(in.Confidence),
			VolatilityIndex: round2(in.Snapshot.ATR),
			RSI:             round2(in.Snapshot.RSI),
			MACD:            round2(in.Snapshot.MACD),
			EMA50:           round2(in.Snapshot.EMAFast),
			EMA200:          round2(in.Snapshot.EMASlow),
		},
	}
}

// TrainedConfidence converts a final training loss into a 0-100 score.
func TrainedConfidence(loss float64) float64 {
	if math.IsNaN(loss) {
		return 0
	}
	return math.Max(0, math.Min(100, (1-loss)*100))
}

// round2 rounds the exact binary value of v to two places, ties to even.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloatWithExponent(v, -30).RoundBank(2).InexactFloat64()
}
