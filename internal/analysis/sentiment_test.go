package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

func newTestSentimentScanner(t *testing.T) *SentimentScanner {
	t.Helper()
	s, err := NewSentimentScanner(DefaultSentimentConfig(), testTP, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestSentimentConfig_Validate(t *testing.T) {
	cfg := DefaultSentimentConfig()
	require.NoError(t, cfg.Validate())

	cfg.PositiveLexicon = nil
	assert.Error(t, cfg.Validate())

	cfg = DefaultSentimentConfig()
	cfg.NegativeThreshold = 0.8
	assert.Error(t, cfg.Validate())
}

func TestAnalyzeSentiment_Labels(t *testing.T) {
	s := newTestSentimentScanner(t)

	tests := []struct {
		name      string
		body      string
		wantLabel core.SentimentLabel
		wantScore float64
	}{
		{"positive", "Great work, the launch was successful", core.SentimentPositive, 1.0},
		{"negative", "We have a problem, the delay caused an issue", core.SentimentNegative, 0.0},
		{"no lexicon hits", "Schedule for next quarter attached", core.SentimentNeutral, 0.5},
		{"balanced hits stay neutral", "Happy with progress despite the delay", core.SentimentNeutral, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ev("e1", day(0), core.KindEmail, []string{"a@x.com"})
			e.Body = tt.body
			records, err := s.AnalyzeSentiment(context.Background(), core.NewTimeline([]core.CommunicationEvent{e}))
			require.NoError(t, err)
			require.Len(t, records, 1)

			assert.Equal(t, tt.wantLabel, records[0].Label)
			assert.InDelta(t, tt.wantScore, records[0].Score, 1e-9)
		})
	}
}

func TestAnalyzeSentiment_HitCounts(t *testing.T) {
	s := newTestSentimentScanner(t)

	e := ev("e1", day(0), core.KindEmail, []string{"a@x.com"})
	e.Title = "Launch delayed"
	e.Body = "Unfortunately we missed the deadline. Sorry about the trouble."

	records, err := s.AnalyzeSentiment(context.Background(), core.NewTimeline([]core.CommunicationEvent{e}))
	require.NoError(t, err)
	require.Len(t, records, 1)

	r := records[0]
	assert.Equal(t, core.SentimentNegative, r.Label)
	assert.Equal(t, 0, r.PositiveHits)
	assert.GreaterOrEqual(t, r.NegativeHits, 3)
	assert.Equal(t, "e1", r.EventID)
}

func TestAnalyzeSentiment_OneRecordPerEvent(t *testing.T) {
	s := newTestSentimentScanner(t)

	tl := core.NewTimeline([]core.CommunicationEvent{
		ev("e1", day(0), core.KindEmail, []string{"a@x.com"}),
		ev("e2", day(1), core.KindMeeting, []string{"b@x.com"}),
		ev("e3", day(2), core.KindEmail, []string{"c@x.com"}),
	})

	records, err := s.AnalyzeSentiment(context.Background(), tl)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}
