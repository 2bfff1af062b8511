package analysis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/utils"
)

var titleCaser = cases.Title(language.English)

// PhaseConfig carries the phase-transition detector parameters
type PhaseConfig struct {
	WindowDays          int
	StrideDays          int
	MinEventsPerWindow  int
	TopKeywords         int
	SimilarityThreshold float64
}

// DefaultPhaseConfig returns 30-day windows with 50% stride
func DefaultPhaseConfig() PhaseConfig {
	return PhaseConfig{
		WindowDays:          30,
		StrideDays:          15,
		MinEventsPerWindow:  3,
		TopKeywords:         5,
		SimilarityThreshold: 0.4,
	}
}

// Validate rejects out-of-range parameters at construction time
func (c PhaseConfig) Validate() error {
	if c.WindowDays <= 0 {
		return fmt.Errorf("phase window_days must be positive, got %d", c.WindowDays)
	}
	if c.StrideDays <= 0 || c.StrideDays > c.WindowDays {
		return fmt.Errorf("phase stride_days must be in (0, window_days], got %d", c.StrideDays)
	}
	if c.MinEventsPerWindow <= 0 {
		return fmt.Errorf("phase min_events_per_window must be positive, got %d", c.MinEventsPerWindow)
	}
	if c.TopKeywords <= 0 {
		return fmt.Errorf("phase top_keywords must be positive, got %d", c.TopKeywords)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("phase similarity_threshold must be in [0,1], got %g", c.SimilarityThreshold)
	}
	return nil
}

// phaseWindow is one retained analysis window with its extracted keyword
// set
type phaseWindow struct {
	start      time.Time
	eventCount int
	keywords   []string
}

// PhaseShifter detects shifts in the dominant discussion topic over time
// by comparing TF-IDF keyword sets of overlapping timeline windows.
type PhaseShifter struct {
	cfg    PhaseConfig
	tp     *utils.TextProcessor
	logger *zap.Logger
}

// NewPhaseShifter creates a phase-transition detector, validating its
// configuration
func NewPhaseShifter(cfg PhaseConfig, tp *utils.TextProcessor, logger *zap.Logger) (*PhaseShifter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &PhaseShifter{cfg: cfg, tp: tp, logger: logger}, nil
}

// DetectTransitions partitions the timeline into overlapping windows,
// extracts per-window keyword sets, and emits a transition at every
// boundary where consecutive retained windows diverge below the
// similarity threshold. Fewer than two retained windows yields no
// transitions.
func (p *PhaseShifter) DetectTransitions(ctx context.Context, t *core.Timeline) ([]core.PhaseTransition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	windows := p.retainedWindows(t)
	if len(windows) < 2 {
		return nil, nil
	}

	var transitions []core.PhaseTransition
	for i := 1; i < len(windows); i++ {
		prev, curr := windows[i-1], windows[i]
		similarity := Jaccard(prev.keywords, curr.keywords)
		if similarity >= p.cfg.SimilarityThreshold {
			continue
		}

		transitions = append(transitions, core.PhaseTransition{
			BoundaryDate: curr.start,
			PrevKeywords: prev.keywords,
			NewKeywords:  curr.keywords,
			Similarity:   similarity,
			Confidence:   p.transitionConfidence(similarity, curr.eventCount),
		})
	}

	p.logger.Info("Phase detection complete",
		zap.Int("windows", len(windows)),
		zap.Int("transitions", len(transitions)))
	return transitions, nil
}

// transitionConfidence decreases monotonically with similarity and gets a
// smaller density term from the later window:
//
//	0.7·(1 − similarity) + 0.3·min(1, events/10)
func (p *PhaseShifter) transitionConfidence(similarity float64, eventCount int) float64 {
	densityScore := clip(float64(eventCount) / 10)
	return clip(0.7*(1-similarity) + 0.3*densityScore)
}

// retainedWindows slides a fixed-length window over the timeline span
// with the configured stride, drops windows under the event minimum, and
// extracts each survivor's keyword set via TF-IDF over the retained
// corpus.
func (p *PhaseShifter) retainedWindows(t *core.Timeline) []phaseWindow {
	if t.Len() == 0 {
		return nil
	}

	window := time.Duration(p.cfg.WindowDays) * 24 * time.Hour
	stride := time.Duration(p.cfg.StrideDays) * 24 * time.Hour

	var windows []phaseWindow
	var documents []string
	for cursor := t.Start(); cursor.Before(t.End()) || cursor.Equal(t.End()); cursor = cursor.Add(stride) {
		events := t.Between(cursor, cursor.Add(window-time.Nanosecond))
		if len(events) < p.cfg.MinEventsPerWindow {
			continue
		}

		var doc strings.Builder
		for _, e := range events {
			doc.WriteString(e.Title)
			doc.WriteString(" ")
			doc.WriteString(e.Body)
			doc.WriteString(" ")
		}
		windows = append(windows, phaseWindow{start: cursor, eventCount: len(events)})
		documents = append(documents, doc.String())
	}

	scorer := newTFIDFScorer(p.tp, documents)
	retained := windows[:0]
	for i := range windows {
		keywords := scorer.topTerms(i, p.cfg.TopKeywords)
		if len(keywords) == 0 {
			// A window whose events carry no extractable terms cannot
			// participate in topic comparison
			continue
		}
		windows[i].keywords = keywords
		retained = append(retained, windows[i])
	}
	return retained
}

// PhaseLabel derives a human-readable phase name from a window's top
// keywords. This is presentation metadata for the reporting layer, not
// part of the detection contract.
func PhaseLabel(keywords []string) string {
	if len(keywords) == 0 {
		return "Unknown"
	}
	label := titleCaser.String(keywords[0])
	if len(keywords) > 1 {
		label += " / " + titleCaser.String(keywords[1])
	}
	return label
}
