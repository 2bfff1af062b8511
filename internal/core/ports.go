package core

import (
	"context"
)

// BurstDetector locates windows of elevated collaboration intensity
type BurstDetector interface {
	DetectBursts(ctx context.Context, t *Timeline) ([]Burst, error)
}

// MilestoneDetector tags individual events matching milestone patterns
type MilestoneDetector interface {
	DetectMilestones(ctx context.Context, t *Timeline) ([]Milestone, error)
}

// PhaseDetector detects topic shifts across successive time windows
type PhaseDetector interface {
	DetectTransitions(ctx context.Context, t *Timeline) ([]PhaseTransition, error)
}

// HandoffDetector classifies participant-set changes between consecutive
// events
type HandoffDetector interface {
	DetectHandoffs(ctx context.Context, t *Timeline) ([]HandoffEvent, error)
}

// SentimentAnalyzer scores per-event tone from configurable lexicons
type SentimentAnalyzer interface {
	AnalyzeSentiment(ctx context.Context, t *Timeline) ([]SentimentRecord, error)
}

// InfluenceMapper ranks participants over the collaboration graph
type InfluenceMapper interface {
	MapInfluence(ctx context.Context, t *Timeline, g *CollaborationGraph) ([]InfluenceScore, error)
}
