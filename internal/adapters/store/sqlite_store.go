package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// SQLiteStore is a SQLite implementation of the FindingStore interface
type SQLiteStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSQLiteStore opens the database and ensures the schema exists
func NewSQLiteStore(dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id TEXT PRIMARY KEY,
			generated_at TIMESTAMP,
			event_count INTEGER,
			burst_count INTEGER,
			milestone_count INTEGER,
			transition_count INTEGER,
			handoff_count INTEGER,
			payload TEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// SaveReport persists a full analysis report under its run id
func (s *SQLiteStore) SaveReport(ctx context.Context, report *core.AnalysisReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_runs
			(run_id, generated_at, event_count, burst_count, milestone_count, transition_count, handoff_count, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, report.RunID, report.GeneratedAt.Format(time.RFC3339), report.Timeline.EventCount,
		len(report.Bursts), len(report.Milestones), len(report.Transitions), len(report.Handoffs),
		string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	s.logger.Debug("Stored analysis report",
		zap.String("run_id", report.RunID),
		zap.Int("payload_bytes", len(payload)))
	return nil
}

// GetReport retrieves a previously saved report
func (s *SQLiteStore) GetReport(ctx context.Context, runID string) (*core.AnalysisReport, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM analysis_runs WHERE run_id = ?
	`, runID).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to query report: %w", err)
	}

	var report core.AnalysisReport
	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// ListRuns returns the known run ids, most recent first
func (s *SQLiteStore) ListRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id FROM analysis_runs ORDER BY generated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan run id: %w", err)
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
