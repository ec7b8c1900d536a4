package utils

import (
	"fmt"
	"strings"

	"cryptoForecaster/internal/ports"
)

// NormalizeSymbol trims symbol and rejects values that cannot safely be
// embedded in a data or artifact file name.
func NormalizeSymbol(symbol string) (string, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" || strings.ContainsAny(symbol, `/\.`) {
		return "", fmt.Errorf("symbol %q: %w", symbol, ports.ErrInvalidSymbol)
	}
	return symbol, nil
}
