package domain

import "time"

// PriceBar represents a single daily OHLCV bar.
type PriceBar struct {
	Timestamp time.Time // Start of the bar interval
	CloseTime time.Time // End of the bar interval (zero if unknown)
	Symbol    string    // Trading symbol
	Open      float64   // Opening price
	High      float64   // Highest price
	Low       float64   // Lowest price
	Close     float64   // Closing price
	Volume    float64   // Traded volume
}

// Closes extracts the closing prices of the given bars in order.
func Closes(bars []*PriceBar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}
