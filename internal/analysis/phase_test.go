package analysis

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

func newTestPhaseShifter(t *testing.T, cfg PhaseConfig) *PhaseShifter {
	t.Helper()
	p, err := NewPhaseShifter(cfg, testTP, zap.NewNop())
	require.NoError(t, err)
	return p
}

func topicEvent(id string, dayN int, text string) core.CommunicationEvent {
	e := ev(id, day(dayN), core.KindEmail, []string{"a@x.com", "b@x.com"})
	e.Title = text
	return e
}

func TestPhaseConfig_Validate(t *testing.T) {
	cfg := DefaultPhaseConfig()
	require.NoError(t, cfg.Validate())

	cfg.StrideDays = 45
	assert.Error(t, cfg.Validate())

	cfg = DefaultPhaseConfig()
	cfg.SimilarityThreshold = 1.5
	assert.Error(t, cfg.Validate())
}

func TestDetectTransitions_TopicShift(t *testing.T) {
	p := newTestPhaseShifter(t, DefaultPhaseConfig())

	// First month about database work, second month about frontend work,
	// with zero keyword overlap between the two vocabularies
	events := []core.CommunicationEvent{
		topicEvent("d1", 0, "database schema migration postgres"),
		topicEvent("d2", 2, "schema index migration tuning"),
		topicEvent("d3", 4, "postgres migration database rollout"),
		topicEvent("f1", 31, "frontend banner widget styling"),
		topicEvent("f2", 33, "styling banner frontend layout"),
		topicEvent("f3", 35, "widget layout frontend polish"),
	}

	transitions, err := p.DetectTransitions(context.Background(), core.NewTimeline(events))
	require.NoError(t, err)
	require.Len(t, transitions, 1)

	tr := transitions[0]
	assert.Equal(t, day(15), tr.BoundaryDate)
	assert.Equal(t, 0.0, tr.Similarity)
	// Disjoint vocabularies give the maximum dissimilarity term:
	// 0.7·1 + 0.3·(3/10)
	assert.InDelta(t, 0.79, tr.Confidence, 1e-9)
	assert.NotEmpty(t, tr.PrevKeywords)
	assert.NotEmpty(t, tr.NewKeywords)
	for _, kw := range tr.PrevKeywords {
		assert.NotContains(t, tr.NewKeywords, kw)
	}
}

func TestDetectTransitions_StableTopicEmitsNothing(t *testing.T) {
	p := newTestPhaseShifter(t, DefaultPhaseConfig())

	var events []core.CommunicationEvent
	for i := 0; i < 12; i++ {
		events = append(events, topicEvent(
			fmt.Sprintf("e%d", i), i*4, "database schema migration postgres"))
	}

	transitions, err := p.DetectTransitions(context.Background(), core.NewTimeline(events))
	require.NoError(t, err)
	assert.Empty(t, transitions)
}

func TestDetectTransitions_TooFewWindows(t *testing.T) {
	p := newTestPhaseShifter(t, DefaultPhaseConfig())

	transitions, err := p.DetectTransitions(context.Background(), core.NewTimeline([]core.CommunicationEvent{
		topicEvent("e1", 0, "database schema"),
		topicEvent("e2", 1, "schema migration"),
		topicEvent("e3", 2, "migration database"),
	}))
	require.NoError(t, err)
	assert.Empty(t, transitions)
}

func TestDetectTransitions_SparseWindowsDropped(t *testing.T) {
	p := newTestPhaseShifter(t, DefaultPhaseConfig())

	// Two dense clusters separated by a quiet stretch: the under-minimum
	// middle windows must not block comparison of the clusters around them
	events := []core.CommunicationEvent{
		topicEvent("d1", 0, "database schema migration"),
		topicEvent("d2", 1, "schema migration postgres"),
		topicEvent("d3", 2, "postgres database tuning"),
		topicEvent("f1", 90, "frontend banner widget"),
		topicEvent("f2", 91, "banner styling widget"),
		topicEvent("f3", 92, "frontend styling layout"),
	}

	transitions, err := p.DetectTransitions(context.Background(), core.NewTimeline(events))
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, 0.0, transitions[0].Similarity)
}

func TestPhaseLabel(t *testing.T) {
	assert.Equal(t, "Unknown", PhaseLabel(nil))
	assert.Equal(t, "Migration", PhaseLabel([]string{"migration"}))
	assert.Equal(t, "Migration / Schema", PhaseLabel([]string{"migration", "schema", "postgres"}))
}
