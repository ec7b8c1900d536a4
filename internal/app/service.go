package app

import (
	"context"
	"fmt"
	"math/rand"

	"cryptoForecaster/config"
	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/forecast"
	"cryptoForecaster/internal/model"
	"cryptoForecaster/internal/ports"
	"cryptoForecaster/internal/strategy"
	"cryptoForecaster/internal/strategy/indicators"
	"cryptoForecaster/internal/utils"

	"github.com/google/uuid"
)

// ForecastService runs the forecasting pipeline for one symbol.
type ForecastService struct {
	cfg       *config.Config
	logger    ports.Logger
	bars      ports.BarSource
	artifacts ports.ArtifactStore
	journal   ports.ReportRepository // optional
	engine    *indicators.Engine
	strategy  *strategy.Strategy
	rng       *rand.Rand
}

// NewForecastService creates a new application service instance. journal may
// be nil to disable the forecast journal. rng is the single random source for
// weight initialisation, shuffling and dropout.
func NewForecastService(
	cfg *config.Config,
	logger ports.Logger,
	bars ports.BarSource,
	artifacts ports.ArtifactStore,
	journal ports.ReportRepository,
	engine *indicators.Engine,
	strat *strategy.Strategy,
	rng *rand.Rand,
) (*ForecastService, error) {
	if cfg == nil || logger == nil || bars == nil || artifacts == nil || engine == nil || strat == nil || rng == nil {
		return nil, fmt.Errorf("missing required dependencies for ForecastService")
	}
	if cfg.ForecastWindow <= 0 || cfg.ForecastHorizon <= 0 {
		return nil, fmt.Errorf("configuration ForecastWindow and ForecastHorizon must be positive")
	}
	if cfg.SmoothingFactor < 0 || cfg.SmoothingFactor >= 1 {
		return nil, fmt.Errorf("configuration SmoothingFactor must be in [0,1)")
	}

	return &ForecastService{
		cfg:       cfg,
		logger:    logger,
		bars:      bars,
		artifacts: artifacts,
		journal:   journal,
		engine:    engine,
		strategy:  strat,
		rng:       rng,
	}, nil
}

// ModelConfig derives the network configuration from the application config.
func ModelConfig(cfg *config.Config) model.Config {
	return model.Config{
		WindowSize:   cfg.ForecastWindow,
		Units:        cfg.ModelUnits,
		DenseUnits:   cfg.ModelDenseUnits,
		DropoutRate:  cfg.ModelDropout,
		Epochs:       cfg.TrainEpochs,
		BatchSize:    cfg.TrainBatchSize,
		LearningRate: cfg.TrainLearningRate,
	}
}

// Run produces the forecast report for symbol. History checks happen before
// any artifact is read or written.
func (s *ForecastService) Run(ctx context.Context, symbol string) (*domain.ForecastResult, error) {
	symbol, err := utils.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	fields := map[string]interface{}{"symbol": symbol}

	bars, err := s.bars.LoadBars(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(bars) < s.cfg.MinHistory {
		return nil, fmt.Errorf("not enough data to train LSTM (need %d days, have %d): %w",
			s.cfg.MinHistory, len(bars), ports.ErrInsufficientHistory)
	}

	rows, err := s.engine.Compute(ctx, bars)
	if err != nil {
		return nil, err
	}
	if need := s.cfg.ForecastWindow + 2; len(rows) < need {
		return nil, fmt.Errorf("only %d of %d rows remain after indicator warm-up, need %d: %w",
			len(rows), len(bars), need, ports.ErrInsufficientHistory)
	}
	s.logger.Debug(ctx, "Indicators computed", map[string]interface{}{"symbol": symbol, "bars": len(bars), "rows": len(rows)})

	snap, err := indicators.Snapshot(rows)
	if err != nil {
		return nil, err
	}
	closes := indicators.CloseSeries(rows)

	net, scaler, source, confidence, err := s.loadOrTrain(ctx, symbol, closes)
	if err != nil {
		return nil, err
	}

	raw, err := forecast.Recursive(ctx, net, scaler.TransformAll(closes), net.WindowSize(), s.cfg.ForecastHorizon)
	if err != nil {
		return nil, fmt.Errorf("forecasting %s: %w", symbol, err)
	}
	smoothed := forecast.Smooth(scaler.InverseAll(raw), s.cfg.SmoothingFactor)

	result := AssembleReport(ReportInput{
		Symbol:     symbol,
		Snapshot:   snap,
		Smoothed:   smoothed,
		Signal:     s.strategy.Classify(ctx, snap),
		Trend:      strategy.TrendDirection(smoothed, snap.Close),
		Confidence: confidence,
	})

	fields["source"] = source
	fields["signal"] = result.MarketSheet.Signal
	fields["trend"] = result.TrendDirection
	fields["predicted"] = result.PredictedPrice30d
	s.logger.Info(ctx, "Forecast complete", fields)

	s.journalRun(ctx, source, result)
	return result, nil
}

// loadOrTrain returns the cached model when both artifacts exist, otherwise
// trains a fresh one and saves it.
func (s *ForecastService) loadOrTrain(ctx context.Context, symbol string, closes []float64) (*model.Network, *forecast.MinMaxScaler, domain.ModelSource, float64, error) {
	if s.artifacts.Exists(ctx, symbol) {
		net, scaler, err := s.artifacts.Load(ctx, symbol)
		if err != nil {
			return nil, nil, "", 0, fmt.Errorf("loading model for %s: %w", symbol, err)
		}
		return net, scaler, domain.ModelSourceCached, s.cfg.CachedConfidence, nil
	}

	scaler, err := forecast.FitScaler(closes)
	if err != nil {
		return nil, nil, "", 0, fmt.Errorf("fitting scaler for %s: %w", symbol, err)
	}
	samples, err := forecast.BuildDataset(scaler.TransformAll(closes), s.cfg.ForecastWindow)
	if err != nil {
		return nil, nil, "", 0, fmt.Errorf("building dataset for %s: %w: %w", symbol, ports.ErrInsufficientHistory, err)
	}

	net, err := model.New(ModelConfig(s.cfg), s.rng)
	if err != nil {
		return nil, nil, "", 0, fmt.Errorf("%w: %w", ports.ErrConfigurationError, err)
	}
	s.logger.Info(ctx, "Training model", map[string]interface{}{"symbol": symbol, "samples": len(samples), "epochs": s.cfg.TrainEpochs})
	history, err := net.Fit(ctx, samples, s.rng, func(epoch int, loss float64) {
		s.logger.Debug(ctx, "Epoch complete", map[string]interface{}{"symbol": symbol, "epoch": epoch, "loss": loss})
	})
	if err != nil {
		return nil, nil, "", 0, fmt.Errorf("training model for %s: %w", symbol, err)
	}

	if err := s.artifacts.Save(ctx, symbol, net, scaler); err != nil {
		return nil, nil, "", 0, fmt.Errorf("saving model for %s: %w", symbol, err)
	}
	return net, scaler, domain.ModelSourceTrained, TrainedConfidence(history.FinalLoss()), nil
}

// journalRun records the run. Failures are logged and never affect the result.
func (s *ForecastService) journalRun(ctx context.Context, source domain.ModelSource, result *domain.ForecastResult) {
	if s.journal == nil {
		return
	}
	run := &domain.ForecastRun{
		RunID:       uuid.NewString(),
		Symbol:      result.Symbol,
		ModelSource: source,
		Result:      result,
	}
	if _, err := s.journal.SaveRun(ctx, run); err != nil {
		s.logger.Warn(ctx, "Failed to journal forecast run", map[string]interface{}{"symbol": result.Symbol, "error": err.Error()})
	}
}
