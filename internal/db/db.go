// Package db provides PostgreSQL persistence for extraction runs and
// evaluation reports.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/cv-extractor/internal/types"
)

// Run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the tables used by this package when they do not
// already exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS extraction_runs (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			status TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS extraction_results (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_id UUID NOT NULL REFERENCES extraction_runs(id) ON DELETE CASCADE,
			document_id TEXT NOT NULL,
			model TEXT NOT NULL,
			record JSONB,
			failure JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (run_id, document_id, model)
		)`,
		`CREATE TABLE IF NOT EXISTS evaluation_reports (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			run_id UUID REFERENCES extraction_runs(id) ON DELETE CASCADE,
			report JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}

// CreateRun creates a new extraction run record and returns its ID
func (db *DB) CreateRun(ctx context.Context) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO extraction_runs (status) VALUES ($1) RETURNING id`,
		RunStatusRunning,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create run: %w", err)
	}
	return id, nil
}

// CompleteRun marks an extraction run as finished with the given status
func (db *DB) CompleteRun(ctx context.Context, runID uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE extraction_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun retrieves an extraction run by ID, or nil when it does not exist
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, status, created_at, completed_at
		 FROM extraction_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Status, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent extraction runs
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, status, created_at, completed_at
		 FROM extraction_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Status, &run.CreatedAt, &run.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// SaveModelResult stores the outcome for one (document, model) pair within
// a run, overwriting any previous outcome for the same pair.
func (db *DB) SaveModelResult(ctx context.Context, runID uuid.UUID, docID, model string, result types.ModelResult) error {
	var recordJSON, failureJSON []byte
	var err error
	if result.Record != nil {
		recordJSON, err = json.Marshal(result.Record)
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
	}
	if result.Failure != nil {
		failureJSON, err = json.Marshal(result.Failure)
		if err != nil {
			return fmt.Errorf("failed to marshal failure: %w", err)
		}
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO extraction_results (run_id, document_id, model, record, failure)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (run_id, document_id, model)
		 DO UPDATE SET record = $4, failure = $5, created_at = NOW()`,
		runID, docID, model, recordJSON, failureJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save result for %s/%s: %w", docID, model, err)
	}
	return nil
}

// GetModelResult retrieves the outcome for one (document, model) pair, or
// nil when none was stored.
func (db *DB) GetModelResult(ctx context.Context, runID uuid.UUID, docID, model string) (*types.ModelResult, error) {
	var recordJSON, failureJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT record, failure FROM extraction_results
		 WHERE run_id = $1 AND document_id = $2 AND model = $3`,
		runID, docID, model,
	).Scan(&recordJSON, &failureJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result for %s/%s: %w", docID, model, err)
	}
	return unmarshalResult(recordJSON, failureJSON)
}

// ListRunResults retrieves every stored outcome for a run
func (db *DB) ListRunResults(ctx context.Context, runID uuid.UUID) ([]StoredResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT document_id, model, record, failure FROM extraction_results
		 WHERE run_id = $1 ORDER BY document_id, model`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	defer rows.Close()

	var results []StoredResult
	for rows.Next() {
		var stored StoredResult
		var recordJSON, failureJSON []byte
		if err := rows.Scan(&stored.DocumentID, &stored.Model, &recordJSON, &failureJSON); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		result, err := unmarshalResult(recordJSON, failureJSON)
		if err != nil {
			return nil, err
		}
		stored.Result = *result
		results = append(results, stored)
	}
	return results, nil
}

// SaveEvaluationReport stores an evaluation report, optionally tied to a run
func (db *DB) SaveEvaluationReport(ctx context.Context, runID uuid.UUID, report *types.EvaluationReport) (uuid.UUID, error) {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal report: %w", err)
	}

	var runArg any
	if runID != uuid.Nil {
		runArg = runID
	}

	var id uuid.UUID
	err = db.pool.QueryRow(ctx,
		`INSERT INTO evaluation_reports (run_id, report) VALUES ($1, $2) RETURNING id`,
		runArg, reportJSON,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save evaluation report: %w", err)
	}
	return id, nil
}

// GetLatestEvaluationReport retrieves the most recent evaluation report, or
// nil when none exists.
func (db *DB) GetLatestEvaluationReport(ctx context.Context) (*types.EvaluationReport, error) {
	var reportJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT report FROM evaluation_reports ORDER BY created_at DESC LIMIT 1`,
	).Scan(&reportJSON)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get evaluation report: %w", err)
	}

	var report types.EvaluationReport
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, fmt.Errorf("failed to parse evaluation report: %w", err)
	}
	return &report, nil
}

func unmarshalResult(recordJSON, failureJSON []byte) (*types.ModelResult, error) {
	var result types.ModelResult
	if len(recordJSON) > 0 {
		var record types.CandidateRecord
		if err := json.Unmarshal(recordJSON, &record); err != nil {
			return nil, fmt.Errorf("failed to parse stored record: %w", err)
		}
		result.Record = &record
	}
	if len(failureJSON) > 0 {
		var failure types.ExtractionFailure
		if err := json.Unmarshal(failureJSON, &failure); err != nil {
			return nil, fmt.Errorf("failed to parse stored failure: %w", err)
		}
		result.Failure = &failure
	}
	return &result, nil
}
