package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// HandoffConfig carries the handoff detector parameters. MaxPairGap
// bounds which consecutive pairs are compared at all; zero disables the
// bound.
type HandoffConfig struct {
	GapThreshold time.Duration
	TurnoverMin  int
	MaxPairGap   time.Duration
}

// DefaultHandoffConfig returns a 14-day gap threshold and a turnover
// minimum of 3 joiners and leavers
func DefaultHandoffConfig() HandoffConfig {
	return HandoffConfig{
		GapThreshold: 14 * 24 * time.Hour,
		TurnoverMin:  3,
	}
}

// Validate rejects out-of-range parameters at construction time
func (c HandoffConfig) Validate() error {
	if c.GapThreshold <= 0 {
		return fmt.Errorf("handoff gap_threshold must be positive, got %s", c.GapThreshold)
	}
	if c.TurnoverMin <= 0 {
		return fmt.Errorf("handoff turnover_min must be positive, got %d", c.TurnoverMin)
	}
	if c.MaxPairGap < 0 {
		return fmt.Errorf("handoff max_pair_gap must not be negative, got %s", c.MaxPairGap)
	}
	return nil
}

// HandoffScanner classifies participant-set changes between
// chronologically consecutive events
type HandoffScanner struct {
	cfg    HandoffConfig
	logger *zap.Logger
}

// NewHandoffScanner creates a handoff detector, validating its
// configuration
func NewHandoffScanner(cfg HandoffConfig, logger *zap.Logger) (*HandoffScanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &HandoffScanner{cfg: cfg, logger: logger}, nil
}

// DetectHandoffs walks consecutive event pairs and emits at most one
// classified handoff per pair. A pair with an unchanged participant set
// emits nothing.
func (h *HandoffScanner) DetectHandoffs(ctx context.Context, t *core.Timeline) ([]core.HandoffEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := t.Events()
	var handoffs []core.HandoffEvent
	for i := 1; i < len(events); i++ {
		prev, curr := events[i-1], events[i]
		gap := curr.Timestamp.Sub(prev.Timestamp)
		if h.cfg.MaxPairGap > 0 && gap > h.cfg.MaxPairGap {
			continue
		}
		if ev, ok := h.classify(prev, curr, gap); ok {
			handoffs = append(handoffs, ev)
		}
	}

	h.logger.Info("Handoff detection complete", zap.Int("handoffs", len(handoffs)))
	return handoffs, nil
}

// classify applies the priority-ordered rules: gap resumption, team
// turnover, team expansion, departure. The first matching rule wins; the
// order is total, so at most one category is emitted per pair.
func (h *HandoffScanner) classify(prev, curr core.CommunicationEvent, gap time.Duration) (core.HandoffEvent, bool) {
	prevSet := prev.ParticipantSet()
	currSet := curr.ParticipantSet()

	joined := make(map[string]struct{})
	for p := range currSet {
		if _, ok := prevSet[p]; !ok {
			joined[p] = struct{}{}
		}
	}
	departed := make(map[string]struct{})
	for p := range prevSet {
		if _, ok := currSet[p]; !ok {
			departed[p] = struct{}{}
		}
	}

	if len(joined) == 0 && len(departed) == 0 {
		return core.HandoffEvent{}, false
	}

	var category core.HandoffCategory
	switch {
	case gap > h.cfg.GapThreshold && len(joined) > 0:
		category = core.HandoffGapResumption
	case len(joined) >= h.cfg.TurnoverMin && len(departed) >= h.cfg.TurnoverMin:
		category = core.HandoffTeamTurnover
	case len(joined) > len(departed):
		category = core.HandoffTeamExpansion
	case len(departed) > len(joined):
		category = core.HandoffDeparture
	default:
		// Equal-sized swap below the turnover minimum: the set changed
		// but no rule applies
		return core.HandoffEvent{}, false
	}

	union := len(prevSet)
	for p := range currSet {
		if _, ok := prevSet[p]; !ok {
			union++
		}
	}

	return core.HandoffEvent{
		Date:       curr.Timestamp,
		Joined:     sortedKeys(joined),
		Departed:   sortedKeys(departed),
		Category:   category,
		Confidence: clip(float64(len(joined)+len(departed)) / float64(union)),
	}, true
}
