package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// ErrRunNotFound is returned when no report exists for a run id
var ErrRunNotFound = errors.New("analysis run not found")

// MemoryStore is an in-memory implementation of the FindingStore
// interface, used for tests and one-shot pipeline runs that only write
// file reports.
type MemoryStore struct {
	mu      sync.RWMutex
	reports map[string]*core.AnalysisReport
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory finding store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		reports: make(map[string]*core.AnalysisReport),
		logger:  logger,
	}
}

// SaveReport persists a full analysis report under its run id
func (s *MemoryStore) SaveReport(ctx context.Context, report *core.AnalysisReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[report.RunID] = report
	s.logger.Debug("Stored analysis report", zap.String("run_id", report.RunID))
	return nil
}

// GetReport retrieves a previously saved report
func (s *MemoryStore) GetReport(ctx context.Context, runID string) (*core.AnalysisReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[runID]
	if !ok {
		return nil, ErrRunNotFound
	}
	return report, nil
}

// ListRuns returns the known run ids, most recent first
func (s *MemoryStore) ListRuns(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	runs := make([]string, 0, len(s.reports))
	for id := range s.reports {
		runs = append(runs, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(runs)))
	return runs, nil
}

// Close is a no-op for the memory store
func (s *MemoryStore) Close() error {
	return nil
}
