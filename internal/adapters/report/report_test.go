package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

func sampleReport() *core.AnalysisReport {
	generated := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	return &core.AnalysisReport{
		RunID:       "20240310T120000Z",
		GeneratedAt: generated,
		Timeline: core.TimelineStats{
			EventCount: 4, EmailCount: 3, MeetingCount: 1,
			ParticipantCount: 5,
			Start:            generated.AddDate(0, -2, 0),
			End:              generated,
			SpanDays:         60, EventsPerDay: 0.066,
		},
		Graph: core.GraphStats{PersonNodes: 5, EventNodes: 4, ParticipationEdges: 9, TemporalEdges: 3, Density: 0.33},
		Bursts: []core.Burst{{
			WindowStart:  generated.AddDate(0, -1, 0),
			WindowEnd:    generated.AddDate(0, -1, 3),
			EventIDs:     []string{"e1", "e2", "e3"},
			Participants: []string{"a@x.com", "b@x.com", "c@x.com"},
			Confidence:   0.82,
		}},
		Milestones: []core.Milestone{{
			Date:            generated.AddDate(0, -1, 1),
			EventID:         "e2",
			Category:        core.MilestoneDeliverable,
			Confidence:      0.9,
			KeywordEvidence: []string{"demo"},
		}},
		Transitions: []core.PhaseTransition{{
			BoundaryDate: generated.AddDate(0, -1, 15),
			PrevKeywords: []string{"schema", "migration"},
			NewKeywords:  []string{"frontend", "banner"},
			Similarity:   0,
			Confidence:   0.79,
		}},
		Handoffs: []core.HandoffEvent{{
			Date:       generated.AddDate(0, 0, -4),
			Joined:     []string{"x@x.com", "y@x.com", "z@x.com"},
			Category:   core.HandoffTeamExpansion,
			Confidence: 0.5,
		}},
		Sentiment: []core.SentimentRecord{{
			EventID: "e1", Date: generated.AddDate(0, -1, 0),
			Label: core.SentimentPositive, Score: 1, PositiveHits: 2,
		}},
		Influence: []core.InfluenceScore{{
			Participant: "a@x.com", Score: 0.41, EventCount: 4,
			EmailCount: 3, MeetingCount: 1, Role: core.RoleActiveLeader, Rank: 1,
		}},
	}
}

func TestTextWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewTextWriter(dir, zap.NewNop())
	report := sampleReport()

	require.NoError(t, w.WriteReport(context.Background(), report))

	raw, err := os.ReadFile(filepath.Join(dir, "summary_20240310T120000Z.txt"))
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, "PROJECT OVERVIEW")
	assert.Contains(t, out, "Total Events: 4")
	assert.Contains(t, out, "COLLABORATION BURSTS")
	assert.Contains(t, out, "Total Bursts Detected: 1")
	assert.Contains(t, out, "PROJECT MILESTONES")
	assert.Contains(t, out, "evidence: demo")
	assert.Contains(t, out, "HANDOFF EVENTS")
	assert.Contains(t, out, "3 joined, 0 departed")
	assert.Contains(t, out, "a@x.com")
}

func TestTextWriter_EmptyReport(t *testing.T) {
	dir := t.TempDir()
	w := NewTextWriter(dir, zap.NewNop())

	empty := &core.AnalysisReport{RunID: "r1", GeneratedAt: time.Now().UTC()}
	require.NoError(t, w.WriteReport(context.Background(), empty))

	raw, err := os.ReadFile(filepath.Join(dir, "summary_r1.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "No collaboration bursts detected")
	assert.Contains(t, string(raw), "No milestones detected")
}

func TestJSONWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONWriter(dir, zap.NewNop())
	report := sampleReport()

	require.NoError(t, w.WriteReport(context.Background(), report))

	raw, err := os.ReadFile(filepath.Join(dir, "analysis_20240310T120000Z.json"))
	require.NoError(t, err)

	var decoded core.AnalysisReport
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)
	require.Len(t, decoded.Bursts, 1)
	assert.Equal(t, report.Bursts[0].EventIDs, decoded.Bursts[0].EventIDs)
}

func TestCSVWriter(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, zap.NewNop())
	report := sampleReport()

	require.NoError(t, w.WriteReport(context.Background(), report))

	for _, name := range []string{
		"collaboration_bursts.csv", "milestones.csv", "phase_transitions.csv",
		"handoffs.csv", "sentiment_timeline.csv", "influence_scores.csv",
	} {
		f, err := os.Open(filepath.Join(dir, name))
		require.NoError(t, err, name)
		rows, err := csv.NewReader(f).ReadAll()
		f.Close()
		require.NoError(t, err, name)
		require.Len(t, rows, 2, name)
	}

	f, err := os.Open(filepath.Join(dir, "collaboration_bursts.csv"))
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "start", rows[0][0])
	assert.Equal(t, "3", rows[1][3], "event_count column")
	assert.Equal(t, "a@x.com;b@x.com;c@x.com", rows[1][5])
}
