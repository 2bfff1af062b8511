package core

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// AnalysisService orchestrates one analysis pass: it builds the Timeline
// and CollaborationGraph once, runs every analyzer over the immutable
// inputs, and collects their outputs into an AnalysisReport. The
// analyzers are independent pure functions, so their order does not
// matter; the service runs them sequentially.
type AnalysisService struct {
	bursts     BurstDetector
	milestones MilestoneDetector
	phases     PhaseDetector
	handoffs   HandoffDetector
	sentiment  SentimentAnalyzer
	influence  InfluenceMapper
	logger     *zap.Logger
}

// NewAnalysisService creates a new analysis service
func NewAnalysisService(
	bursts BurstDetector,
	milestones MilestoneDetector,
	phases PhaseDetector,
	handoffs HandoffDetector,
	sentiment SentimentAnalyzer,
	influence InfluenceMapper,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		bursts:     bursts,
		milestones: milestones,
		phases:     phases,
		handoffs:   handoffs,
		sentiment:  sentiment,
		influence:  influence,
		logger:     logger,
	}
}

// Analyze runs the full pipeline over a validated event collection. An
// empty collection degrades to an empty report, not an error.
func (s *AnalysisService) Analyze(ctx context.Context, events []CommunicationEvent) (*AnalysisReport, error) {
	started := time.Now()

	timeline := NewTimeline(events)
	graph := BuildGraph(timeline)

	s.logger.Info("Timeline built",
		zap.Int("events", timeline.Len()),
		zap.Float64("span_days", timeline.SpanDays()),
		zap.Float64("events_per_day", timeline.Density()))

	report := &AnalysisReport{
		RunID:       started.UTC().Format("20060102T150405Z"),
		GeneratedAt: started.UTC(),
		Timeline:    timeline.Stats(),
		Graph:       graph.Stats(),
	}

	var err error
	if report.Bursts, err = s.bursts.DetectBursts(ctx, timeline); err != nil {
		return nil, fmt.Errorf("burst detection failed: %w", err)
	}
	if report.Milestones, err = s.milestones.DetectMilestones(ctx, timeline); err != nil {
		return nil, fmt.Errorf("milestone detection failed: %w", err)
	}
	if report.Transitions, err = s.phases.DetectTransitions(ctx, timeline); err != nil {
		return nil, fmt.Errorf("phase detection failed: %w", err)
	}
	if report.Handoffs, err = s.handoffs.DetectHandoffs(ctx, timeline); err != nil {
		return nil, fmt.Errorf("handoff detection failed: %w", err)
	}
	if report.Sentiment, err = s.sentiment.AnalyzeSentiment(ctx, timeline); err != nil {
		return nil, fmt.Errorf("sentiment analysis failed: %w", err)
	}
	if report.Influence, err = s.influence.MapInfluence(ctx, timeline, graph); err != nil {
		return nil, fmt.Errorf("influence mapping failed: %w", err)
	}

	s.logger.Info("Analysis complete",
		zap.String("run_id", report.RunID),
		zap.Int("bursts", len(report.Bursts)),
		zap.Int("milestones", len(report.Milestones)),
		zap.Int("transitions", len(report.Transitions)),
		zap.Int("handoffs", len(report.Handoffs)),
		zap.Duration("elapsed", time.Since(started)))

	return report, nil
}
