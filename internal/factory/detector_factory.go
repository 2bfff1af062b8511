package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/analysis"
	"github.com/meridian/chronolens/internal/config"
	"github.com/meridian/chronolens/internal/utils"
)

// DetectorFactory creates the analysis detectors based on configuration
type DetectorFactory struct {
	cfg    *config.Config
	tp     *utils.TextProcessor
	logger *zap.Logger
}

// NewDetectorFactory creates a new detector factory
func NewDetectorFactory(cfg *config.Config, tp *utils.TextProcessor, logger *zap.Logger) *DetectorFactory {
	return &DetectorFactory{
		cfg:    cfg,
		tp:     tp,
		logger: logger,
	}
}

// CreateBurster builds the burst detector from configuration
func (f *DetectorFactory) CreateBurster() (*analysis.Burster, error) {
	window, err := f.cfg.GetDuration("analysis.burst.window")
	if err != nil {
		return nil, fmt.Errorf("invalid burst window: %w", err)
	}
	return analysis.NewBurster(analysis.BurstConfig{
		Window:          window,
		MinEvents:       f.cfg.GetInt("analysis.burst.min_events"),
		MinParticipants: f.cfg.GetInt("analysis.burst.min_participants"),
		MaxParticipants: f.cfg.GetInt("analysis.burst.max_participants"),
		Adaptive:        f.cfg.GetBool("analysis.burst.adaptive"),
	}, f.logger)
}

// CreateMilestoner builds the milestone detector from configuration
func (f *DetectorFactory) CreateMilestoner() (*analysis.Milestoner, error) {
	followUpWindow, err := f.cfg.GetDuration("analysis.milestone.follow_up_window")
	if err != nil {
		return nil, fmt.Errorf("invalid milestone follow-up window: %w", err)
	}
	calmWindow, err := f.cfg.GetDuration("analysis.milestone.calm_window")
	if err != nil {
		return nil, fmt.Errorf("invalid milestone calm window: %w", err)
	}
	return analysis.NewMilestoner(analysis.MilestoneConfig{
		DeliverableLexicon:    f.cfg.GetStringSlice("analysis.milestone.deliverable_lexicon"),
		PlanningLexicon:       f.cfg.GetStringSlice("analysis.milestone.planning_lexicon"),
		LargeMeetingThreshold: f.cfg.GetInt("analysis.milestone.large_meeting_threshold"),
		FollowUpWindow:        followUpWindow,
		MinFollowUps:          f.cfg.GetInt("analysis.milestone.min_follow_ups"),
		CalmWindow:            calmWindow,
		CalmMax:               f.cfg.GetInt("analysis.milestone.calm_max"),
	}, f.tp, f.logger)
}

// CreatePhaseShifter builds the phase transition detector from
// configuration
func (f *DetectorFactory) CreatePhaseShifter() (*analysis.PhaseShifter, error) {
	return analysis.NewPhaseShifter(analysis.PhaseConfig{
		WindowDays:          f.cfg.GetInt("analysis.phase.window_days"),
		StrideDays:          f.cfg.GetInt("analysis.phase.stride_days"),
		MinEventsPerWindow:  f.cfg.GetInt("analysis.phase.min_events_per_window"),
		TopKeywords:         f.cfg.GetInt("analysis.phase.top_keywords"),
		SimilarityThreshold: f.cfg.GetFloat64("analysis.phase.similarity_threshold"),
	}, f.tp, f.logger)
}

// CreateHandoffScanner builds the handoff detector from configuration
func (f *DetectorFactory) CreateHandoffScanner() (*analysis.HandoffScanner, error) {
	gapThreshold, err := f.cfg.GetDuration("analysis.handoff.gap_threshold")
	if err != nil {
		return nil, fmt.Errorf("invalid handoff gap threshold: %w", err)
	}
	maxPairGap, err := f.cfg.GetDuration("analysis.handoff.max_pair_gap")
	if err != nil {
		return nil, fmt.Errorf("invalid handoff max pair gap: %w", err)
	}
	return analysis.NewHandoffScanner(analysis.HandoffConfig{
		GapThreshold: gapThreshold,
		TurnoverMin:  f.cfg.GetInt("analysis.handoff.turnover_min"),
		MaxPairGap:   maxPairGap,
	}, f.logger)
}

// CreateSentimentScanner builds the sentiment analyzer from
// configuration. Empty lexicons fall back to the built-ins.
func (f *DetectorFactory) CreateSentimentScanner() (*analysis.SentimentScanner, error) {
	cfg := analysis.DefaultSentimentConfig()
	if positive := f.cfg.GetStringSlice("analysis.sentiment.positive_lexicon"); len(positive) > 0 {
		cfg.PositiveLexicon = positive
	}
	if negative := f.cfg.GetStringSlice("analysis.sentiment.negative_lexicon"); len(negative) > 0 {
		cfg.NegativeLexicon = negative
	}
	cfg.PositiveThreshold = f.cfg.GetFloat64("analysis.sentiment.positive_threshold")
	cfg.NegativeThreshold = f.cfg.GetFloat64("analysis.sentiment.negative_threshold")
	return analysis.NewSentimentScanner(cfg, f.tp, f.logger)
}

// CreateInfluenceRanker builds the influence mapper from configuration
func (f *DetectorFactory) CreateInfluenceRanker() (*analysis.InfluenceRanker, error) {
	return analysis.NewInfluenceRanker(analysis.InfluenceConfig{
		Damping:       f.cfg.GetFloat64("analysis.influence.damping"),
		MaxIterations: f.cfg.GetInt("analysis.influence.max_iterations"),
		Tolerance:     f.cfg.GetFloat64("analysis.influence.tolerance"),
		HighInfluence: f.cfg.GetFloat64("analysis.influence.high_influence"),
		HighActivity:  f.cfg.GetInt("analysis.influence.high_activity"),
	}, f.logger)
}
