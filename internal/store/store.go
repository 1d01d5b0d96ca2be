// Package store persists scenario run history to PostgreSQL. Persistence is
// optional; the runner works fine without a database and the CLI only wires a
// store when a connection URL is configured.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/xkilldash9x/uitest-cli/internal/report"
	"github.com/xkilldash9x/uitest-cli/internal/scenario"
)

// DBPool abstracts pgxpool.Pool so tests can substitute a mock.
type DBPool interface {
	Ping(ctx context.Context) error
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// Store is the PostgreSQL run-history repository.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// RunRecord is one persisted run, as read back from the database.
type RunRecord struct {
	ID       string
	Suite    string
	Start    time.Time
	Duration time.Duration
	Passed   int
	Failed   int
	Errored  int
}

// New creates a store and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

// EnsureSchema creates the run-history tables when they do not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS runs (
    id          UUID PRIMARY KEY,
    suite       TEXT NOT NULL,
    started_at  TIMESTAMPTZ NOT NULL,
    duration_ms BIGINT NOT NULL,
    passed      INT NOT NULL,
    failed      INT NOT NULL,
    errored     INT NOT NULL
);
CREATE TABLE IF NOT EXISTS run_results (
    run_id      UUID NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    name        TEXT NOT NULL,
    status      TEXT NOT NULL,
    error       TEXT,
    duration_ms BIGINT NOT NULL,
    session_id  TEXT,
    screenshot  TEXT
);`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRun persists a completed run and its per-scenario results in one
// transaction. It returns the generated run id.
func (s *Store) SaveRun(ctx context.Context, run report.Run) (string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		// Rollback after Commit reports ErrTxClosed; that is the normal path,
		// not a failure.
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			s.log.Error("Failed to rollback transaction", zap.Error(rollbackErr))
		}
	}()

	runID := uuid.New().String()
	passed, failed, errored := run.Counts()

	_, err = tx.Exec(ctx,
		`INSERT INTO runs (id, suite, started_at, duration_ms, passed, failed, errored)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		runID, run.SuiteName, run.Start.UTC(), run.Duration().Milliseconds(),
		passed, failed, errored,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	if len(run.Results) > 0 {
		if err := s.persistResults(ctx, tx, runID, run.Results); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return runID, nil
}

func (s *Store) persistResults(ctx context.Context, tx pgx.Tx, runID string, results []scenario.Result) error {
	rows := make([][]interface{}, len(results))
	for i, res := range results {
		var errText any
		if res.Err != nil {
			errText = res.Err.Error()
		}
		rows[i] = []interface{}{
			runID, res.Name, string(res.Status), errText,
			res.Duration.Milliseconds(), res.SessionID, res.Screenshot,
		}
	}

	copyCount, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"run_results"},
		[]string{"run_id", "name", "status", "error", "duration_ms", "session_id", "screenshot"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy run results: %w", err)
	}
	if int(copyCount) != len(results) {
		return fmt.Errorf("mismatch in copied result count: expected %d, got %d", len(results), copyCount)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, suite, started_at, duration_ms, passed, failed, errored
		 FROM runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var rec RunRecord
		var durationMS int64
		if err := rows.Scan(&rec.ID, &rec.Suite, &rec.Start, &durationMS,
			&rec.Passed, &rec.Failed, &rec.Errored); err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		rec.Duration = time.Duration(durationMS) * time.Millisecond
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed while iterating runs: %w", err)
	}
	return records, nil
}
