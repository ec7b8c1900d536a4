package ports

import (
	"context"
	"time"

	"cryptoForecaster/internal/domain"
)

// KlineSource retrieves historical bars from an upstream market-data provider.
type KlineSource interface {
	// Ping checks the connectivity to the exchange API.
	Ping(ctx context.Context) error

	// GetKlinesRange fetches every bar for symbol/interval between start and end, oldest first.
	GetKlinesRange(ctx context.Context, symbol, interval string, start, end time.Time) ([]*domain.PriceBar, error)
}
