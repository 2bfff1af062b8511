package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/ports"
)

func sampleReport(runID string, generatedAt time.Time) *core.AnalysisReport {
	return &core.AnalysisReport{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Timeline:    core.TimelineStats{EventCount: 3, EmailCount: 2, MeetingCount: 1},
		Bursts: []core.Burst{{
			WindowStart:  generatedAt.Add(-48 * time.Hour),
			WindowEnd:    generatedAt.Add(-24 * time.Hour),
			EventIDs:     []string{"e1", "e2"},
			Participants: []string{"a@x.com", "b@x.com"},
			Confidence:   0.7,
		}},
		Handoffs: []core.HandoffEvent{{
			Date:       generatedAt.Add(-12 * time.Hour),
			Joined:     []string{"c@x.com"},
			Category:   core.HandoffTeamExpansion,
			Confidence: 0.5,
		}},
	}
}

// exerciseStore runs the FindingStore contract against any implementation
func exerciseStore(t *testing.T, s ports.FindingStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	_, err := s.GetReport(ctx, "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)

	first := sampleReport("20240310T120000Z", base)
	second := sampleReport("20240311T120000Z", base.Add(24*time.Hour))
	require.NoError(t, s.SaveReport(ctx, first))
	require.NoError(t, s.SaveReport(ctx, second))

	got, err := s.GetReport(ctx, first.RunID)
	require.NoError(t, err)
	assert.Equal(t, first.RunID, got.RunID)
	assert.Equal(t, 3, got.Timeline.EventCount)
	require.Len(t, got.Bursts, 1)
	assert.Equal(t, []string{"e1", "e2"}, got.Bursts[0].EventIDs)
	assert.InDelta(t, 0.7, got.Bursts[0].Confidence, 1e-9)
	require.Len(t, got.Handoffs, 1)
	assert.Equal(t, core.HandoffTeamExpansion, got.Handoffs[0].Category)

	// Saving the same run id again replaces the stored report
	updated := sampleReport(first.RunID, base)
	updated.Timeline.EventCount = 9
	require.NoError(t, s.SaveReport(ctx, updated))
	got, err = s.GetReport(ctx, first.RunID)
	require.NoError(t, err)
	assert.Equal(t, 9, got.Timeline.EventCount)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{second.RunID, first.RunID}, runs)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore(zap.NewNop())
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "findings.db"), zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}
