package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// SpoolSink appends captured events to a JSON-lines spool file that the
// analysis pipeline later loads as an event source
type SpoolSink struct {
	mu     sync.Mutex
	file   *os.File
	logger *zap.Logger
}

// NewSpoolSink opens (or creates) the spool file for appending
func NewSpoolSink(path string, logger *zap.Logger) (*SpoolSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create spool directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open spool: %w", err)
	}
	return &SpoolSink{file: f, logger: logger}, nil
}

// Append durably records one event as a single JSON line
func (s *SpoolSink) Append(ctx context.Context, event *core.CommunicationEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(struct {
		ID           string   `json:"id"`
		Timestamp    string   `json:"timestamp"`
		Kind         string   `json:"kind"`
		Participants []string `json:"participants"`
		Title        string   `json:"title"`
		Body         string   `json:"body"`
	}{
		ID:           event.ID,
		Timestamp:    event.Timestamp.UTC().Format("2006-01-02T15:04:05Z07:00"),
		Kind:         string(event.Kind),
		Participants: event.Participants,
		Title:        event.Title,
		Body:         event.Body,
	})
	if err != nil {
		return fmt.Errorf("failed to encode spool record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to append spool record: %w", err)
	}
	if err := s.file.Sync(); err != nil {
		s.logger.Warn("Spool sync failed", zap.Error(err))
	}
	return nil
}

// Close closes the spool file
func (s *SpoolSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}
