package utils

import (
	"testing"

	"cryptoForecaster/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "BTCUSDT", want: "BTCUSDT"},
		{name: "surrounding space", in: "  ETHUSDT\n", want: "ETHUSDT"},
		{name: "empty", in: "", wantErr: true},
		{name: "blank", in: "   ", wantErr: true},
		{name: "parent dir", in: "../x", wantErr: true},
		{name: "slash", in: "BTC/USDT", wantErr: true},
		{name: "backslash", in: `BTC\USDT`, wantErr: true},
		{name: "dot", in: "BTC.USDT", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ports.ErrInvalidSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
