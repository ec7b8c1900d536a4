package domain

// Signal is the discrete trading signal derived from the indicator snapshot.
type Signal string

const (
	SignalStrongBuy  Signal = "STRONG BUY"
	SignalBuy        Signal = "BUY"
	SignalNeutral    Signal = "NEUTRAL"
	SignalSell       Signal = "SELL"
	SignalStrongSell Signal = "STRONG SELL"
)

// TrendDirection is the direction implied by the smoothed forecast.
type TrendDirection string

const (
	TrendUp   TrendDirection = "UP"
	TrendDown TrendDirection = "DOWN"
)

// ModelSource tells whether the forecast model was trained in this run or loaded from disk.
type ModelSource string

const (
	ModelSourceTrained ModelSource = "trained"
	ModelSourceCached  ModelSource = "cached"
)
