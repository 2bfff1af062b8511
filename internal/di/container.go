package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/config"
	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/exclusions"
	"github.com/meridian/chronolens/internal/factory"
	"github.com/meridian/chronolens/internal/logging"
	"github.com/meridian/chronolens/internal/ports"
	"github.com/meridian/chronolens/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register exclusion checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *exclusions.Checker {
		return exclusions.NewChecker(
			cfg.GetStringSlice("exclusions.addresses"),
			cfg.GetStringSlice("exclusions.domains"),
			logger,
		)
	}); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReportFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewDetectorFactory); err != nil {
		return nil, err
	}

	// Register event source
	if err := container.Provide(func(f *factory.SourceFactory) (ports.EventSource, error) {
		return f.CreateEventSource()
	}); err != nil {
		return nil, err
	}

	// Register finding store
	if err := container.Provide(func(f *factory.StoreFactory) (ports.FindingStore, error) {
		return f.CreateFindingStore()
	}); err != nil {
		return nil, err
	}

	// Register report writers
	if err := container.Provide(func(f *factory.ReportFactory) ([]ports.ReportWriter, error) {
		return f.CreateReportWriters()
	}); err != nil {
		return nil, err
	}

	// Register detectors
	if err := container.Provide(func(f *factory.DetectorFactory) (core.BurstDetector, error) {
		return f.CreateBurster()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DetectorFactory) (core.MilestoneDetector, error) {
		return f.CreateMilestoner()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DetectorFactory) (core.PhaseDetector, error) {
		return f.CreatePhaseShifter()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DetectorFactory) (core.HandoffDetector, error) {
		return f.CreateHandoffScanner()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DetectorFactory) (core.SentimentAnalyzer, error) {
		return f.CreateSentimentScanner()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.DetectorFactory) (core.InfluenceMapper, error) {
		return f.CreateInfluenceRanker()
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(core.NewAnalysisService); err != nil {
		return nil, err
	}

	return container, nil
}
