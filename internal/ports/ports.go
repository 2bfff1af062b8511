package ports

import (
	"context"

	"github.com/meridian/chronolens/internal/core"
)

// EventSource defines the interface for loading validated communication
// events
type EventSource interface {
	// Load reads, validates and deduplicates events from the configured
	// source
	Load(ctx context.Context) ([]core.CommunicationEvent, error)
}

// EventSink defines the interface for appending captured events, used by
// the live ingestion daemon
type EventSink interface {
	// Append durably records one event
	Append(ctx context.Context, event *core.CommunicationEvent) error

	// Close releases the underlying resource
	Close() error
}

// FindingStore defines the interface for persisting analysis runs
type FindingStore interface {
	// SaveReport persists a full analysis report under its run id
	SaveReport(ctx context.Context, report *core.AnalysisReport) error

	// GetReport retrieves a previously saved report
	GetReport(ctx context.Context, runID string) (*core.AnalysisReport, error)

	// ListRuns returns the known run ids, most recent first
	ListRuns(ctx context.Context) ([]string, error)

	// Close releases the underlying resource
	Close() error
}

// ReportWriter defines the interface for rendering an analysis report to
// an external format
type ReportWriter interface {
	// WriteReport renders the report to the writer's configured target
	WriteReport(ctx context.Context, report *core.AnalysisReport) error
}
