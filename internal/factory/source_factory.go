package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/adapters/source"
	"github.com/meridian/chronolens/internal/config"
	"github.com/meridian/chronolens/internal/exclusions"
	"github.com/meridian/chronolens/internal/ports"
)

// SourceFactory creates event sources based on configuration
type SourceFactory struct {
	cfg      *config.Config
	excluded *exclusions.Checker
	logger   *zap.Logger
}

// NewSourceFactory creates a new source factory
func NewSourceFactory(cfg *config.Config, excluded *exclusions.Checker, logger *zap.Logger) *SourceFactory {
	return &SourceFactory{
		cfg:      cfg,
		excluded: excluded,
		logger:   logger,
	}
}

// CreateEventSource creates an event source based on the configuration
func (f *SourceFactory) CreateEventSource() (ports.EventSource, error) {
	sourceType := f.cfg.GetString("source.type")

	switch sourceType {
	case "export":
		return source.NewJSONSource(
			f.cfg.GetString("source.email_path"),
			f.cfg.GetString("source.calendar_path"),
			f.excluded,
			f.logger,
		), nil
	case "spool":
		return source.NewSpoolSource(
			f.cfg.GetString("source.spool_path"),
			f.excluded,
			f.logger,
		), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", sourceType)
	}
}
