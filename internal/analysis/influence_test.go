package analysis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

func newTestInfluenceRanker(t *testing.T, cfg InfluenceConfig) *InfluenceRanker {
	t.Helper()
	r, err := NewInfluenceRanker(cfg, zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestInfluenceConfig_Validate(t *testing.T) {
	cfg := DefaultInfluenceConfig()
	require.NoError(t, cfg.Validate())

	cfg.Damping = 1.0
	assert.Error(t, cfg.Validate())

	cfg = DefaultInfluenceConfig()
	cfg.Tolerance = 0
	assert.Error(t, cfg.Validate())
}

func TestMapInfluence_HubRanksFirst(t *testing.T) {
	r := newTestInfluenceRanker(t, DefaultInfluenceConfig())

	// a collaborates with everyone, the others only with a
	tl := core.NewTimeline([]core.CommunicationEvent{
		ev("e1", day(0), core.KindEmail, []string{"a@x.com", "b@x.com"}),
		ev("e2", day(1), core.KindEmail, []string{"a@x.com", "c@x.com"}),
		ev("e3", day(2), core.KindMeeting, []string{"a@x.com", "d@x.com"}),
		ev("e4", day(3), core.KindEmail, []string{"a@x.com", "b@x.com"}),
	})
	g := core.BuildGraph(tl)

	scores, err := r.MapInfluence(context.Background(), tl, g)
	require.NoError(t, err)
	require.Len(t, scores, 4)

	assert.Equal(t, "a@x.com", scores[0].Participant)
	assert.Equal(t, 1, scores[0].Rank)
	assert.Equal(t, 4, scores[0].EventCount)
	assert.Equal(t, 3, scores[0].EmailCount)
	assert.Equal(t, 1, scores[0].MeetingCount)

	// Rank mass is conserved by the dangling-node redistribution
	sum := 0.0
	for _, s := range scores {
		sum += s.Score
		assert.Equal(t, s.Rank, indexOf(scores, s.Participant)+1)
	}
	assert.InDelta(t, 1.0, sum, 1e-6)
}

func indexOf(scores []core.InfluenceScore, participant string) int {
	for i, s := range scores {
		if s.Participant == participant {
			return i
		}
	}
	return -1
}

func TestMapInfluence_EmptyGraph(t *testing.T) {
	r := newTestInfluenceRanker(t, DefaultInfluenceConfig())
	tl := core.NewTimeline(nil)

	scores, err := r.MapInfluence(context.Background(), tl, core.BuildGraph(tl))
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestMapInfluence_DeterministicTieBreak(t *testing.T) {
	r := newTestInfluenceRanker(t, DefaultInfluenceConfig())

	// Symmetric pair: identical scores, alphabetical order decides
	tl := core.NewTimeline([]core.CommunicationEvent{
		ev("e1", day(0), core.KindEmail, []string{"b@x.com", "a@x.com"}),
		ev("e2", day(1), core.KindEmail, []string{"a@x.com", "b@x.com"}),
	})
	g := core.BuildGraph(tl)

	scores, err := r.MapInfluence(context.Background(), tl, g)
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "a@x.com", scores[0].Participant)
	assert.Equal(t, "b@x.com", scores[1].Participant)
	assert.InDelta(t, scores[0].Score, scores[1].Score, 1e-9)
}

func TestClassifyRole(t *testing.T) {
	r := newTestInfluenceRanker(t, DefaultInfluenceConfig())

	tests := []struct {
		name      string
		influence float64
		activity  int
		want      core.ParticipantRole
	}{
		{"high both", 0.05, 20, core.RoleActiveLeader},
		{"influence only", 0.05, 2, core.RoleStrategicLeader},
		{"activity only", 0.01, 20, core.RoleExecutor},
		{"neither", 0.01, 2, core.RoleContributor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.classifyRole(tt.influence, tt.activity))
		})
	}
}
