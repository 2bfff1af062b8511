package report

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// JSONWriter renders the full analysis report as a single indented JSON
// document under the output directory
type JSONWriter struct {
	outputDir string
	logger    *zap.Logger
}

// NewJSONWriter creates a new JSON report writer
func NewJSONWriter(outputDir string, logger *zap.Logger) *JSONWriter {
	return &JSONWriter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// WriteReport renders the report to the writer's configured target
func (w *JSONWriter) WriteReport(_ context.Context, report *core.AnalysisReport) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("analysis_%s.json", report.RunID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	w.logger.Info("Wrote JSON report", zap.String("path", path))
	return nil
}
