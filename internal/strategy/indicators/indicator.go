package indicators

// IndicatorConfig holds common configuration for indicators
type IndicatorConfig struct {
	Period int
}

// Config holds the periods of every indicator computed by the Engine.
type Config struct {
	RSI        IndicatorConfig
	MACDFast   IndicatorConfig
	MACDSlow   IndicatorConfig
	MACDSignal IndicatorConfig
	Bollinger  BollingerConfig
	EMAFast    IndicatorConfig
	EMASlow    IndicatorConfig
	ATR        IndicatorConfig
}

// BollingerConfig holds configuration for the volatility bands.
type BollingerConfig struct {
	IndicatorConfig
	StdDev float64
}

// DefaultConfig returns RSI(14), MACD(12,26,9), Bollinger(5,2), EMA(50), EMA(200) and ATR(14).
func DefaultConfig() Config {
	return Config{
		RSI:        IndicatorConfig{Period: 14},
		MACDFast:   IndicatorConfig{Period: 12},
		MACDSlow:   IndicatorConfig{Period: 26},
		MACDSignal: IndicatorConfig{Period: 9},
		Bollinger:  BollingerConfig{IndicatorConfig: IndicatorConfig{Period: 5}, StdDev: 2},
		EMAFast:    IndicatorConfig{Period: 50},
		EMASlow:    IndicatorConfig{Period: 200},
		ATR:        IndicatorConfig{Period: 14},
	}
}

// warmUp returns, per indicator, the number of leading bars for which it is undefined.
func (c Config) warmUp() map[string]int {
	return map[string]int{
		"rsi":       c.RSI.Period,
		"macd":      c.MACDSlow.Period - 1 + c.MACDSignal.Period - 1,
		"bollinger": c.Bollinger.Period - 1,
		"ema_fast":  c.EMAFast.Period - 1,
		"ema_slow":  c.EMASlow.Period - 1,
		"atr":       c.ATR.Period,
	}
}

// WarmUp returns how many leading bars are discarded because some indicator is still undefined.
func (c Config) WarmUp() int {
	longest := 0
	for _, n := range c.warmUp() {
		if n > longest {
			longest = n
		}
	}
	return longest
}
