package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/adapters/report"
	"github.com/meridian/chronolens/internal/config"
	"github.com/meridian/chronolens/internal/ports"
)

// ReportFactory creates report writers based on configuration
type ReportFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewReportFactory creates a new report factory
func NewReportFactory(cfg *config.Config, logger *zap.Logger) *ReportFactory {
	return &ReportFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateReportWriters creates one writer per configured report format
func (f *ReportFactory) CreateReportWriters() ([]ports.ReportWriter, error) {
	outputDir := f.cfg.GetString("report.output_dir")
	formats := f.cfg.GetStringSlice("report.formats")

	writers := make([]ports.ReportWriter, 0, len(formats))
	for _, format := range formats {
		switch format {
		case "text":
			writers = append(writers, report.NewTextWriter(outputDir, f.logger))
		case "json":
			writers = append(writers, report.NewJSONWriter(outputDir, f.logger))
		case "csv":
			writers = append(writers, report.NewCSVWriter(outputDir, f.logger))
		default:
			return nil, fmt.Errorf("unsupported report format: %s", format)
		}
	}
	return writers, nil
}
