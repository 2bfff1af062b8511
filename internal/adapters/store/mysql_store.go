package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// MySQLStore is a MySQL implementation of the FindingStore interface
type MySQLStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMySQLStore connects to the database and ensures the schema exists
func NewMySQLStore(dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id VARCHAR(64) PRIMARY KEY,
			generated_at TIMESTAMP,
			event_count INT,
			burst_count INT,
			milestone_count INT,
			transition_count INT,
			handoff_count INT,
			payload LONGTEXT
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create runs table: %w", err)
	}

	return &MySQLStore{db: db, logger: logger}, nil
}

// SaveReport persists a full analysis report under its run id
func (s *MySQLStore) SaveReport(ctx context.Context, report *core.AnalysisReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO analysis_runs
			(run_id, generated_at, event_count, burst_count, milestone_count, transition_count, handoff_count, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			generated_at = VALUES(generated_at),
			event_count = VALUES(event_count),
			burst_count = VALUES(burst_count),
			milestone_count = VALUES(milestone_count),
			transition_count = VALUES(transition_count),
			handoff_count = VALUES(handoff_count),
			payload = VALUES(payload)
	`, report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05"), report.Timeline.EventCount,
		len(report.Bursts), len(report.Milestones), len(report.Transitions), len(report.Handoffs),
		string(payload))
	if err != nil {
		return fmt.Errorf("failed to upsert report: %w", err)
	}

	s.logger.Debug("Stored analysis report",
		zap.String("run_id", report.RunID),
		zap.Int("payload_bytes", len(payload)))
	return nil
}

// GetReport retrieves a previously saved report
func (s *MySQLStore) GetReport(ctx context.Context, runID string) (*core.AnalysisReport, error) {
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
func (s *MySQLStore) ListRuns(ctx context.Context) ([]string, error) {
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
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
