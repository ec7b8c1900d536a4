package ports

import (
	"context"

	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/forecast"
	"cryptoForecaster/internal/model"
)

// BarSource loads the symbol-keyed price history written by the data collector.
type BarSource interface {
	// LoadBars returns the bars for symbol ordered by ascending timestamp.
	// Returns ErrMissingInputData if no data exists for the symbol.
	LoadBars(ctx context.Context, symbol string) ([]*domain.PriceBar, error)
}

// BarSink persists downloaded bars under the symbol-keyed identity.
type BarSink interface {
	SaveBars(ctx context.Context, symbol string, bars []*domain.PriceBar) error
}

// ArtifactStore persists the trained model together with its fitted scaler.
type ArtifactStore interface {
	// Exists reports whether both the model and the scaler are stored for symbol.
	Exists(ctx context.Context, symbol string) bool
	// Load returns the stored model and scaler.
	// Returns ErrNotFound if absent and ErrArtifactCorrupt if either file cannot be decoded.
	Load(ctx context.Context, symbol string) (*model.Network, *forecast.MinMaxScaler, error)
	// Save stores the model and scaler, replacing any previous pair.
	Save(ctx context.Context, symbol string, net *model.Network, scaler *forecast.MinMaxScaler) error
}

// ReportRepository journals completed forecasts.
type ReportRepository interface {
	// SaveRun stores a completed forecast and returns its assigned ID.
	SaveRun(ctx context.Context, run *domain.ForecastRun) (int64, error)
	// FindBySymbol retrieves the most recent runs for a symbol, newest first, up to a limit.
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.ForecastRun, error)
}
