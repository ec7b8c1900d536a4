package artifacts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"cryptoForecaster/internal/forecast"
	"cryptoForecaster/internal/model"
	"cryptoForecaster/internal/ports"
)

// Store implements ports.ArtifactStore with one model file and one scaler
// file per symbol under a single directory.
type Store struct {
	dir    string
	logger ports.Logger
}

// Config holds configuration for the artifact store.
type Config struct {
	Dir    string
	Logger ports.Logger
}

// NewStore creates an artifact store rooted at cfg.Dir. The directory is
// created lazily on the first save.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for artifact store")
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "models"
	}
	return &Store{dir: dir, logger: cfg.Logger}, nil
}

// ModelPath returns the model file of symbol.
func (s *Store) ModelPath(symbol string) string {
	return filepath.Join(s.dir, fmt.Sprintf("lstm_%s.json", symbol))
}

// ScalerPath returns the scaler file of symbol.
func (s *Store) ScalerPath(symbol string) string {
	return filepath.Join(s.dir, fmt.Sprintf("scaler_%s.json", symbol))
}

// Exists reports whether both artifact files are present.
func (s *Store) Exists(ctx context.Context, symbol string) bool {
	return fileExists(s.ModelPath(symbol)) && fileExists(s.ScalerPath(symbol))
}

// Load decodes the model and scaler of symbol.
func (s *Store) Load(ctx context.Context, symbol string) (*model.Network, *forecast.MinMaxScaler, error) {
	net := &model.Network{}
	if err := readJSON(s.ModelPath(symbol), net); err != nil {
		return nil, nil, err
	}
	if err := net.Validate(); err != nil {
		return nil, nil, fmt.Errorf("model %s: %w: %w", s.ModelPath(symbol), ports.ErrArtifactCorrupt, err)
	}

	scaler := &forecast.MinMaxScaler{}
	if err := readJSON(s.ScalerPath(symbol), scaler); err != nil {
		return nil, nil, err
	}
	if err := scaler.Validate(); err != nil {
		return nil, nil, fmt.Errorf("scaler %s: %w: %w", s.ScalerPath(symbol), ports.ErrArtifactCorrupt, err)
	}

	s.logger.Info(ctx, "Loaded model artifacts", map[string]interface{}{
		"symbol": symbol,
		"model":  s.ModelPath(symbol),
		"scaler": s.ScalerPath(symbol),
	})
	return net, scaler, nil
}

// Save writes the model and scaler of symbol. Each file is written to a
// temporary name and renamed into place.
func (s *Store) Save(ctx context.Context, symbol string, net *model.Network, scaler *forecast.MinMaxScaler) error {
	if net == nil || scaler == nil {
		return fmt.Errorf("model and scaler are both required: %w", ports.ErrInvalidRequest)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create models directory '%s': %w", s.dir, err)
	}
	if err := writeJSON(s.ModelPath(symbol), net); err != nil {
		return err
	}
	if err := writeJSON(s.ScalerPath(symbol), scaler); err != nil {
		return err
	}
	s.logger.Info(ctx, "Saved model artifacts", map[string]interface{}{
		"symbol": symbol,
		"model":  s.ModelPath(symbol),
		"scaler": s.ScalerPath(symbol),
	})
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("artifact %s: %w", path, ports.ErrNotFound)
		}
		return fmt.Errorf("reading artifact %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w: %w", path, ports.ErrArtifactCorrupt, err)
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name()) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
