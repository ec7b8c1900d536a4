package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"cryptoForecaster/internal/domain"
	"cryptoForecaster/internal/ports"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements the ports.ReportRepository interface using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/forecasts.db" // Default path
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, fmt.Errorf("%w: %w", ports.ErrDBConnection, err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, fmt.Errorf("%w: %w", ports.ErrDBConnection, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, fmt.Errorf("%w: %w", ports.ErrDBConnection, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cfg.Logger.Debug(context.Background(), "SQLite database connection established", map[string]interface{}{"path": dbPath})

	repo := &Repository{db: db, logger: cfg.Logger}
	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	return repo, nil
}

// initializeSchema creates tables if they don't exist.
func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS forecast_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL UNIQUE,
		symbol TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		model_source TEXT NOT NULL,
		confidence REAL NOT NULL,
		signal TEXT NOT NULL,
		trend TEXT NOT NULL,
		current_price REAL NOT NULL,
		predicted_price REAL NOT NULL,
		report_json TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_forecast_runs_symbol_created_at ON forecast_runs (symbol, created_at);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Debug(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// SaveRun stores a completed forecast and returns its assigned ID. A run
// without a RunID or CreatedAt gets a fresh UUID and the current time.
func (r *Repository) SaveRun(ctx context.Context, run *domain.ForecastRun) (int64, error) {
	if run == nil || run.Result == nil {
		return 0, fmt.Errorf("forecast run has no result: %w", ports.ErrInvalidRequest)
	}
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if run.Symbol == "" {
		run.Symbol = run.Result.Symbol
	}

	report, err := json.Marshal(run.Result)
	if err != nil {
		return 0, fmt.Errorf("failed to encode forecast report for %s: %w", run.Symbol, err)
	}

	const query = `
	INSERT INTO forecast_runs (run_id, symbol, created_at, model_source, confidence, signal,
	                           trend, current_price, predicted_price, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res := run.Result
	result, err := r.db.ExecContext(ctx, query,
		run.RunID, run.Symbol, run.CreatedAt, string(run.ModelSource), res.MarketSheet.ConfidenceScore,
		string(res.MarketSheet.Signal), string(res.TrendDirection), res.CurrentPrice, res.PredictedPrice30d, string(report))
	if err != nil {
		return 0, fmt.Errorf("failed to insert forecast run for symbol %s: %w: %w", run.Symbol, ports.ErrQueryFailed, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for forecast run %s: %w", run.Symbol, err)
	}
	run.ID = id
	r.logger.Debug(ctx, "Forecast run journaled", map[string]interface{}{"id": id, "runID": run.RunID, "symbol": run.Symbol})
	return id, nil
}

// FindBySymbol retrieves the most recent runs for a symbol, newest first, up to a limit.
func (r *Repository) FindBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.ForecastRun, error) {
	const query = `
	SELECT id, run_id, symbol, created_at, model_source, report_json
	FROM forecast_runs
	WHERE symbol = ? ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query forecast runs for symbol %s: %w: %w", symbol, ports.ErrQueryFailed, err)
	}
	defer rows.Close()

	runs := make([]*domain.ForecastRun, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forecast run during FindBySymbol: %w", err)
		}
		runs = append(runs, run)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forecast run rows: %w", err)
	}
	return runs, nil
}

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRun scans a row into a domain.ForecastRun struct.
func scanRun(s scanner) (*domain.ForecastRun, error) {
	run := &domain.ForecastRun{}
	var source, report string
	if err := s.Scan(&run.ID, &run.RunID, &run.Symbol, &run.CreatedAt, &source, &report); err != nil {
		return nil, err
	}
	run.ModelSource = domain.ModelSource(source)
	run.Result = &domain.ForecastResult{}
	if err := json.Unmarshal([]byte(report), run.Result); err != nil {
		return nil, fmt.Errorf("decoding report of run %s: %w", run.RunID, err)
	}
	return run, nil
}
