package marketdata

import (
	"context"
	"os"
	"testing"
	"time"

	"cryptoForecaster/internal/adapters/logger"
	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(Config{Dir: t.TempDir(), Logger: logger.Nop()})
	require.NoError(t, err)
	return s
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bars := []*domain.PriceBar{
		{Timestamp: start, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Timestamp: start.AddDate(0, 0, 1), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 12},
	}

	require.NoError(t, s.SaveBars(ctx, "ETHUSDT", bars))
	assert.FileExists(t, s.Path("ETHUSDT"))

	got, err := s.LoadBars(ctx, "ETHUSDT")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ETHUSDT", got[0].Symbol)
	assert.Equal(t, 2.0, got[1].Close)
}

func TestStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)
	_, err := s.LoadBars(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrMissingInputData)
}

func TestStore_LoadMalformed(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path("BAD"), []byte("timestamp,open\n"), 0644))

	_, err := s.LoadBars(context.Background(), "BAD")
	require.Error(t, err)
	assert.ErrorIs(t, err, ports.ErrMalformedInput)
}
