package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/di"
	"github.com/meridian/chronolens/internal/ports"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	eventSource ports.EventSource,
	service *core.AnalysisService,
	findingStore ports.FindingStore,
	writers []ports.ReportWriter,
) error {
	defer logger.Sync()
	defer func() {
		if err := findingStore.Close(); err != nil {
			logger.Error("Failed to close finding store", zap.Error(err))
		}
	}()

	ctx := context.Background()

	events, err := eventSource.Load(ctx)
	if err != nil {
		logger.Error("Failed to load events", zap.Error(err))
		return err
	}
	logger.Info("Loaded events", zap.Int("count", len(events)))

	report, err := service.Analyze(ctx, events)
	if err != nil {
		logger.Error("Analysis failed", zap.Error(err))
		return err
	}

	if err := findingStore.SaveReport(ctx, report); err != nil {
		logger.Error("Failed to store report", zap.Error(err))
		return err
	}

	for _, writer := range writers {
		if err := writer.WriteReport(ctx, report); err != nil {
			logger.Error("Failed to write report", zap.Error(err))
			return err
		}
	}

	logger.Info("Run complete", zap.String("run_id", report.RunID))
	return nil
}
