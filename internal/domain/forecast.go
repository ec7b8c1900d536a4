package domain

import "time"

// MarketSheet summarises the indicator snapshot and model confidence.
// All values are rounded to two decimals.
type MarketSheet struct {
	Signal          Signal  `json:"signal"`
	ConfidenceScore float64 `json:"confidence_score"`
	VolatilityIndex float64 `json:"volatility_index"`
	RSI             float64 `json:"rsi"`
	MACD            float64 `json:"macd"`
	EMA50           float64 `json:"ema_50"`
	EMA200          float64 `json:"ema_200"`
}

// ForecastResult is the single record emitted by a successful run.
type ForecastResult struct {
	Symbol            string         `json:"symbol"`
	CurrentPrice      float64        `json:"current_price"`
	PredictedPrice30d float64        `json:"predicted_price_30d"`
	TrendDirection    TrendDirection `json:"trend_direction"`
	PredictedTrend    []float64      `json:"predicted_trend"`
	MarketSheet       MarketSheet    `json:"market_sheet"`
}

// ErrorRecord is emitted instead of a ForecastResult when a run fails.
type ErrorRecord struct {
	Error string `json:"error"`
}

// ForecastRun is a journaled forecast.
type ForecastRun struct {
	ID          int64       // Database row ID
	RunID       string      // Unique run identifier
	Symbol      string      // Trading symbol
	CreatedAt   time.Time   // When the forecast was produced
	ModelSource ModelSource // Whether the model was trained or loaded
	Result      *ForecastResult
}
