package strategy

import (
	"context"
	"fmt"

	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/ports"
)

// Config holds the RSI thresholds of the signal rules.
type Config struct {
	RSIStrongOversold   float64 // e.g., 30.0, strong buy when also above the slow EMA
	RSIOversold         float64 // e.g., 40.0
	RSIOverbought       float64 // e.g., 60.0
	RSIStrongOverbought float64 // e.g., 70.0, strong sell when also below the slow EMA
}

// DefaultConfig returns the 30/40/60/70 thresholds.
func DefaultConfig() Config {
	return Config{
		RSIStrongOversold:   30,
		RSIOversold:         40,
		RSIOverbought:       60,
		RSIStrongOverbought: 70,
	}
}

// rule maps a snapshot predicate to the signal it produces.
type rule struct {
	name    string
	matches func(s domain.IndicatorSnapshot) bool
	signal  domain.Signal
}

// Strategy classifies indicator snapshots into trading signals.
type Strategy struct {
	cfg    Config
	rules  []rule
	logger ports.Logger
}

// New creates a new Strategy instance.
func New(cfg Config, logger ports.Logger) (*Strategy, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	for _, v := range []float64{cfg.RSIStrongOversold, cfg.RSIOversold, cfg.RSIOverbought, cfg.RSIStrongOverbought} {
		if v < 0 || v > 100 {
			return nil, fmt.Errorf("RSI thresholds must be between 0 and 100, got %.2f", v)
		}
	}
	if cfg.RSIStrongOversold > cfg.RSIOversold || cfg.RSIOverbought > cfg.RSIStrongOverbought {
		return nil, fmt.Errorf("strong thresholds must lie outside the plain thresholds")
	}
	if cfg.RSIOversold >= cfg.RSIOverbought {
		return nil, fmt.Errorf("oversold threshold must be less than overbought threshold")
	}

	// Evaluated in order, first match wins.
	rules := []rule{
		{
			name:    "oversold above slow EMA",
			matches: func(s domain.IndicatorSnapshot) bool { return s.RSI < cfg.RSIStrongOversold && s.Close > s.EMASlow },
			signal:  domain.SignalStrongBuy,
		},
		{
			name:    "oversold",
			matches: func(s domain.IndicatorSnapshot) bool { return s.RSI < cfg.RSIOversold },
			signal:  domain.SignalBuy,
		},
		{
			name:    "overbought below slow EMA",
			matches: func(s domain.IndicatorSnapshot) bool { return s.RSI > cfg.RSIStrongOverbought && s.Close < s.EMASlow },
			signal:  domain.SignalStrongSell,
		},
		{
			name:    "overbought",
			matches: func(s domain.IndicatorSnapshot) bool { return s.RSI > cfg.RSIOverbought },
			signal:  domain.SignalSell,
		},
	}

	return &Strategy{cfg: cfg, rules: rules, logger: logger}, nil
}

// Classify returns the signal of the first matching rule, or NEUTRAL.
func (s *Strategy) Classify(ctx context.Context, snap domain.IndicatorSnapshot) domain.Signal {
	for _, r := range s.rules {
		if r.matches(snap) {
			s.logger.Debug(ctx, "Signal rule matched", map[string]interface{}{
				"rule": r.name, "signal": r.signal, "rsi": snap.RSI, "close": snap.Close, "emaSlow": snap.EMASlow,
			})
			return r.signal
		}
	}
	return domain.SignalNeutral
}

// TrendDirection is UP when the last smoothed forecast exceeds the current close.
func TrendDirection(smoothed []float64, currentClose float64) domain.TrendDirection {
	if len(smoothed) > 0 && smoothed[len(smoothed)-1] > currentClose {
		return domain.TrendUp
	}
	return domain.TrendDown
}
