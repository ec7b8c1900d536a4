package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Logging
	LogLevel  string `default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `default:"console" validate:"oneof=console json"`

	// Storage
	DataDir       string `default:"." validate:"required"`
	ModelsDir     string `default:"models" validate:"required"`
	ReportDBPath  string `default:"./data/forecasts.db"`
	ReportJournal bool   `default:"true"`

	// Pipeline
	MinHistory       int     `default:"200" validate:"gte=1"`
	ForecastWindow   int     `default:"60" validate:"gte=1"`
	ForecastHorizon  int     `default:"30" validate:"gte=1"`
	SmoothingFactor  float64 `default:"0.8" validate:"gte=0,lt=1"`
	CachedConfidence float64 `default:"95.0" validate:"gte=0,lte=100"`

	// Model
	ModelUnits        int     `default:"50" validate:"gte=1"`
	ModelDenseUnits   int     `default:"25" validate:"gte=1"`
	ModelDropout      float64 `default:"0.2" validate:"gte=0,lt=1"`
	TrainEpochs       int     `default:"5" validate:"gte=1"`
	TrainBatchSize    int     `default:"32" validate:"gte=1"`
	TrainLearningRate float64 `default:"0.001" validate:"gt=0"`
	RandomSeed        int64   `default:"42"`

	// Signal thresholds (RSI)
	SignalRSIStrongOversold   float64 `default:"30" validate:"gte=0,lte=100"`
	SignalRSIOversold         float64 `default:"40" validate:"gte=0,lte=100"`
	SignalRSIOverbought       float64 `default:"60" validate:"gte=0,lte=100"`
	SignalRSIStrongOverbought float64 `default:"70" validate:"gte=0,lte=100"`

	// Binance API (data collector only; public endpoints work without keys)
	APIKey        string
	SecretKey     string
	BinanceURL    string `default:"https://api.binance.us" validate:"url"`
	FetchDays     int    `default:"1000" validate:"gte=1"`
	FetchInterval string `default:"1d" validate:"required"`
}

var validate = validator.New()

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}

	var errs []string // Collect parse and validation errors
	parseErr := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	// Logging
	cfg.LogLevel = strings.ToLower(getEnv("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", cfg.LogFormat))

	// Storage
	cfg.DataDir = getEnv("DATA_DIR", cfg.DataDir)
	cfg.ModelsDir = getEnv("MODELS_DIR", cfg.ModelsDir)
	cfg.ReportDBPath = getEnv("REPORT_DB_PATH", cfg.ReportDBPath)
	cfg.ReportJournal = getEnvAsBool("REPORT_JOURNAL", cfg.ReportJournal)

	// Pipeline
	var err error
	cfg.MinHistory, err = getEnvAsIntRequired("MIN_HISTORY", cfg.MinHistory)
	parseErr(err)
	cfg.ForecastWindow, err = getEnvAsIntRequired("FORECAST_WINDOW", cfg.ForecastWindow)
	parseErr(err)
	cfg.ForecastHorizon, err = getEnvAsIntRequired("FORECAST_HORIZON", cfg.ForecastHorizon)
	parseErr(err)
	cfg.SmoothingFactor, err = getEnvAsFloatRequired("SMOOTHING_FACTOR", cfg.SmoothingFactor)
	parseErr(err)
	cfg.CachedConfidence, err = getEnvAsFloatRequired("CACHED_CONFIDENCE", cfg.CachedConfidence)
	parseErr(err)

	// Model
	cfg.ModelUnits, err = getEnvAsIntRequired("MODEL_UNITS", cfg.ModelUnits)
	parseErr(err)
	cfg.ModelDenseUnits, err = getEnvAsIntRequired("MODEL_DENSE_UNITS", cfg.ModelDenseUnits)
	parseErr(err)
	cfg.ModelDropout, err = getEnvAsFloatRequired("MODEL_DROPOUT", cfg.ModelDropout)
	parseErr(err)
	cfg.TrainEpochs, err = getEnvAsIntRequired("TRAIN_EPOCHS", cfg.TrainEpochs)
	parseErr(err)
	cfg.TrainBatchSize, err = getEnvAsIntRequired("TRAIN_BATCH_SIZE", cfg.TrainBatchSize)
	parseErr(err)
	cfg.TrainLearningRate, err = getEnvAsFloatRequired("TRAIN_LEARNING_RATE", cfg.TrainLearningRate)
	parseErr(err)
	seed, err := getEnvAsIntRequired("RANDOM_SEED", int(cfg.RandomSeed))
	parseErr(err)
	cfg.RandomSeed = int64(seed)

	// Signal thresholds
	cfg.SignalRSIStrongOversold, err = getEnvAsFloatRequired("SIGNAL_RSI_STRONG_OVERSOLD", cfg.SignalRSIStrongOversold)
	parseErr(err)
	cfg.SignalRSIOversold, err = getEnvAsFloatRequired("SIGNAL_RSI_OVERSOLD", cfg.SignalRSIOversold)
	parseErr(err)
	cfg.SignalRSIOverbought, err = getEnvAsFloatRequired("SIGNAL_RSI_OVERBOUGHT", cfg.SignalRSIOverbought)
	parseErr(err)
	cfg.SignalRSIStrongOverbought, err = getEnvAsFloatRequired("SIGNAL_RSI_STRONG_OVERBOUGHT", cfg.SignalRSIStrongOverbought)
	parseErr(err)

	// Binance API
	cfg.APIKey = getEnv("BINANCE_API_KEY", "")
	cfg.SecretKey = getEnv("BINANCE_API_SECRET", "")
	cfg.BinanceURL = getEnv("BINANCE_BASE_URL", cfg.BinanceURL)
	cfg.FetchDays, err = getEnvAsIntRequired("FETCH_DAYS", cfg.FetchDays)
	parseErr(err)
	cfg.FetchInterval = getEnv("FETCH_INTERVAL", cfg.FetchInterval)

	if err := cfg.Validate(); err != nil {
		errs = append(errs, err.Error())
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// Validate checks field constraints and the relationships between thresholds.
func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return err
		}
		for _, fe := range fieldErrs {
			errs = append(errs, fmt.Sprintf("%s failed '%s' (value: %v)", fe.Field(), fieldRule(fe), fe.Value()))
		}
	}

	if c.SignalRSIStrongOversold > c.SignalRSIOversold {
		errs = append(errs, "SIGNAL_RSI_STRONG_OVERSOLD must not exceed SIGNAL_RSI_OVERSOLD")
	}
	if c.SignalRSIOverbought > c.SignalRSIStrongOverbought {
		errs = append(errs, "SIGNAL_RSI_OVERBOUGHT must not exceed SIGNAL_RSI_STRONG_OVERBOUGHT")
	}
	if c.SignalRSIOversold >= c.SignalRSIOverbought {
		errs = append(errs, "SIGNAL_RSI_OVERSOLD must be less than SIGNAL_RSI_OVERBOUGHT")
	}
	if c.ReportJournal && c.ReportDBPath == "" {
		errs = append(errs, "REPORT_DB_PATH must be set when REPORT_JOURNAL is enabled")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func fieldRule(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
