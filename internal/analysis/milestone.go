package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/utils"
)

// MilestoneConfig carries the milestone detector parameters. The three
// categories are evaluated independently: an event may yield a milestone
// per matching category.
type MilestoneConfig struct {
	DeliverableLexicon    []string
	PlanningLexicon       []string
	LargeMeetingThreshold int
	FollowUpWindow        time.Duration
	MinFollowUps          int
	CalmWindow            time.Duration
	CalmMax               int
}

// DefaultMilestoneConfig returns the documented defaults, lexicons
// included
func DefaultMilestoneConfig() MilestoneConfig {
	return MilestoneConfig{
		DeliverableLexicon: []string{
			"presentation", "demo", "review", "showcase", "deliverable",
			"launch", "release", "delivery", "final", "approval",
		},
		PlanningLexicon: []string{
			"workshop", "briefing", "kickoff", "strategy", "planning",
			"brainstorm", "discovery", "scoping", "roadmap", "alignment",
		},
		LargeMeetingThreshold: 7,
		FollowUpWindow:        48 * time.Hour,
		MinFollowUps:          3,
		CalmWindow:            72 * time.Hour,
		CalmMax:               3,
	}
}

// Validate rejects out-of-range parameters at construction time
func (c MilestoneConfig) Validate() error {
	if len(c.DeliverableLexicon) == 0 {
		return fmt.Errorf("milestone deliverable lexicon must not be empty")
	}
	if len(c.PlanningLexicon) == 0 {
		return fmt.Errorf("milestone planning lexicon must not be empty")
	}
	if c.LargeMeetingThreshold <= 0 {
		return fmt.Errorf("milestone large_meeting_threshold must be positive, got %d", c.LargeMeetingThreshold)
	}
	if c.FollowUpWindow <= 0 {
		return fmt.Errorf("milestone follow_up_window must be positive, got %s", c.FollowUpWindow)
	}
	if c.MinFollowUps <= 0 {
		return fmt.Errorf("milestone min_follow_ups must be positive, got %d", c.MinFollowUps)
	}
	if c.CalmWindow <= 0 {
		return fmt.Errorf("milestone calm_window must be positive, got %s", c.CalmWindow)
	}
	if c.CalmMax < 0 {
		return fmt.Errorf("milestone calm_max must not be negative, got %d", c.CalmMax)
	}
	return nil
}

// Milestoner tags individual events matching the behavioral patterns of
// project milestones
type Milestoner struct {
	cfg         MilestoneConfig
	tp          *utils.TextProcessor
	logger      *zap.Logger
	deliverable []string
	planning    []string
}

// NewMilestoner creates a milestone detector, validating its
// configuration. Lexicon terms are normalized once so matching stays
// consistent with event text normalization.
func NewMilestoner(cfg MilestoneConfig, tp *utils.TextProcessor, logger *zap.Logger) (*Milestoner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Milestoner{cfg: cfg, tp: tp, logger: logger}
	for _, term := range cfg.DeliverableLexicon {
		m.deliverable = append(m.deliverable, tp.Normalize(term))
	}
	for _, term := range cfg.PlanningLexicon {
		m.planning = append(m.planning, tp.Normalize(term))
	}
	return m, nil
}

// DetectMilestones evaluates every event against the three milestone
// patterns and returns the matches in timeline order. An event matching
// nothing produces no record.
func (m *Milestoner) DetectMilestones(ctx context.Context, t *core.Timeline) ([]core.Milestone, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var milestones []core.Milestone
	for _, e := range t.Events() {
		text := m.tp.Normalize(e.Title + " " + e.Body)

		if ms, ok := m.deliverableAt(e, text); ok {
			milestones = append(milestones, ms)
		}
		if ms, ok := m.planningAt(t, e, text); ok {
			milestones = append(milestones, ms)
		}
		if ms, ok := m.decisionPointAt(t, e); ok {
			milestones = append(milestones, ms)
		}
	}

	m.logger.Info("Milestone detection complete", zap.Int("milestones", len(milestones)))
	return milestones, nil
}

// deliverableAt matches the deliverable lexicon against title and body.
// Confidence blends keyword evidence with audience size, clipped to 1.
func (m *Milestoner) deliverableAt(e core.CommunicationEvent, text string) (core.Milestone, bool) {
	matched := matchLexicon(text, m.deliverable)
	if len(matched) == 0 {
		return core.Milestone{}, false
	}

	keywordScore := clip(float64(len(matched)) / 2)
	confidence := clip(0.6*keywordScore + float64(len(e.Participants))/20)

	return core.Milestone{
		Date:            e.Timestamp,
		EventID:         e.ID,
		Category:        core.MilestoneDeliverable,
		Confidence:      confidence,
		KeywordEvidence: matched,
	}, true
}

// planningAt matches the planning lexicon and requires follow-up activity
// inside the follow-up window after the event.
func (m *Milestoner) planningAt(t *core.Timeline, e core.CommunicationEvent, text string) (core.Milestone, bool) {
	matched := matchLexicon(text, m.planning)
	if len(matched) == 0 {
		return core.Milestone{}, false
	}

	followUps := m.followUps(t, e, false)
	if len(followUps) < m.cfg.MinFollowUps {
		return core.Milestone{}, false
	}

	keywordScore := clip(float64(len(matched)) / 2)
	activityScore := clip(float64(len(followUps)) / 10)
	sizeScore := clip(float64(len(e.Participants)) / 12)
	confidence := clip(0.4*keywordScore + 0.3*activityScore + 0.3*sizeScore)

	return core.Milestone{
		Date:            e.Timestamp,
		EventID:         e.ID,
		Category:        core.MilestonePlanning,
		Confidence:      confidence,
		KeywordEvidence: matched,
		FollowUpCount:   len(followUps),
	}, true
}

// decisionPointAt looks for the large-meeting → email spike → calm
// pattern: a big audience, enough follow-up emails, and at most calm_max
// events in the calm window after the follow-ups.
func (m *Milestoner) decisionPointAt(t *core.Timeline, e core.CommunicationEvent) (core.Milestone, bool) {
	if len(e.Participants) < m.cfg.LargeMeetingThreshold {
		return core.Milestone{}, false
	}

	followUps := m.followUps(t, e, true)
	if len(followUps) < m.cfg.MinFollowUps {
		return core.Milestone{}, false
	}

	calmStart := e.Timestamp.Add(m.cfg.FollowUpWindow)
	calmEvents := t.Between(calmStart.Add(time.Nanosecond), calmStart.Add(m.cfg.CalmWindow))
	if len(calmEvents) > m.cfg.CalmMax {
		return core.Milestone{}, false
	}

	followUpScore := clip(float64(len(followUps)) / 10)
	sizeScore := clip(float64(len(e.Participants)) / 15)
	calmScore := 1 - clip(float64(len(calmEvents))/float64(m.cfg.CalmMax+1))
	confidence := clip(0.4*followUpScore + 0.4*sizeScore + 0.2*calmScore)

	return core.Milestone{
		Date:          e.Timestamp,
		EventID:       e.ID,
		Category:      core.MilestoneDecisionPoint,
		Confidence:    confidence,
		FollowUpCount: len(followUps),
	}, true
}

// followUps returns the events strictly after e inside the follow-up
// window, optionally restricted to emails.
func (m *Milestoner) followUps(t *core.Timeline, e core.CommunicationEvent, emailOnly bool) []core.CommunicationEvent {
	window := t.Between(e.Timestamp.Add(time.Nanosecond), e.Timestamp.Add(m.cfg.FollowUpWindow))
	var out []core.CommunicationEvent
	for _, f := range window {
		if f.ID == e.ID {
			continue
		}
		if emailOnly && f.Kind != core.KindEmail {
			continue
		}
		out = append(out, f)
	}
	return out
}

// matchLexicon returns the lexicon terms contained in the normalized
// text, preserving lexicon order so evidence is deterministic.
func matchLexicon(text string, lexicon []string) []string {
	var matched []string
	for _, term := range lexicon {
		if term != "" && strings.Contains(text, term) {
			matched = append(matched, term)
		}
	}
	return matched
}
