package analysis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

func newTestBurster(t *testing.T, cfg BurstConfig) *Burster {
	t.Helper()
	b, err := NewBurster(cfg, zap.NewNop())
	require.NoError(t, err)
	return b
}

func TestBurstConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BurstConfig)
		wantErr bool
	}{
		{"defaults valid", func(c *BurstConfig) {}, false},
		{"zero window", func(c *BurstConfig) { c.Window = 0 }, true},
		{"zero min events", func(c *BurstConfig) { c.MinEvents = 0 }, true},
		{"max below min participants", func(c *BurstConfig) { c.MaxParticipants = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBurstConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDetectBursts_BelowMinEvents(t *testing.T) {
	b := newTestBurster(t, BurstConfig{
		Window: 720 * time.Hour, MinEvents: 3, MinParticipants: 2, MaxParticipants: 20,
	})
	tl := core.NewTimeline([]core.CommunicationEvent{
		ev("e1", day(0), core.KindEmail, []string{"a@x.com", "b@x.com"}),
		ev("e2", day(1), core.KindEmail, []string{"a@x.com", "c@x.com"}),
	})

	bursts, err := b.DetectBursts(context.Background(), tl)
	require.NoError(t, err)
	assert.Empty(t, bursts)
}

// A sparse month with three connected events, an unrelated pair deep in
// the window, and a late resumption: exactly one burst over the three
// connected events, spanning their nine distinct participants.
func TestDetectBursts_ConnectedWindow(t *testing.T) {
	b := newTestBurster(t, BurstConfig{
		Window: 720 * time.Hour, MinEvents: 3, MinParticipants: 2, MaxParticipants: 20,
	})
	tl := core.NewTimeline([]core.CommunicationEvent{
		ev("e1", day(0), core.KindEmail, []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com"}),
		ev("e2", day(2), core.KindMeeting, []string{"a@x.com", "b@x.com", "e@x.com", "f@x.com", "g@x.com"}),
		ev("e3", day(5), core.KindEmail, []string{"c@x.com", "f@x.com", "h@x.com", "i@x.com"}),
		// Inside the 30-day window but sharing nobody with the burst
		ev("e4", day(19), core.KindEmail, []string{"j@x.com", "k@x.com"}),
		ev("e5", day(40), core.KindEmail, []string{"a@x.com", "b@x.com"}),
	})

	bursts, err := b.DetectBursts(context.Background(), tl)
	require.NoError(t, err)
	require.Len(t, bursts, 1)

	burst := bursts[0]
	assert.Equal(t, []string{"e1", "e2", "e3"}, burst.EventIDs)
	assert.Len(t, burst.Participants, 9)
	assert.NotContains(t, burst.Participants, "j@x.com")
	assert.Equal(t, day(0), burst.WindowStart)
	assert.Equal(t, day(5), burst.WindowEnd)
	assert.Greater(t, burst.Confidence, 0.0)
	assert.LessOrEqual(t, burst.Confidence, 1.0)
}

func TestDetectBursts_ParticipantCapRejectsWindow(t *testing.T) {
	b := newTestBurster(t, BurstConfig{
		Window: 168 * time.Hour, MinEvents: 2, MinParticipants: 2, MaxParticipants: 3,
	})
	tl := core.NewTimeline([]core.CommunicationEvent{
		ev("e1", day(0), core.KindEmail, []string{"a@x.com", "b@x.com", "c@x.com"}),
		ev("e2", day(1), core.KindEmail, []string{"a@x.com", "d@x.com", "e@x.com"}),
	})

	// Union is five participants, over the cap
	bursts, err := b.DetectBursts(context.Background(), tl)
	require.NoError(t, err)
	assert.Empty(t, bursts)
}

func TestDetectBursts_OverlappingCandidatesMerge(t *testing.T) {
	b := newTestBurster(t, BurstConfig{
		Window: 168 * time.Hour, MinEvents: 3, MinParticipants: 2, MaxParticipants: 15,
	})
	// Four events on consecutive days sharing one team: windows anchored
	// at e1 and e2 overlap almost entirely and must merge
	tl := core.NewTimeline([]core.CommunicationEvent{
		ev("e1", day(0), core.KindEmail, []string{"a@x.com", "b@x.com"}),
		ev("e2", day(1), core.KindMeeting, []string{"a@x.com", "c@x.com"}),
		ev("e3", day(2), core.KindEmail, []string{"b@x.com", "c@x.com"}),
		ev("e4", day(3), core.KindEmail, []string{"a@x.com", "b@x.com", "c@x.com"}),
	})

	bursts, err := b.DetectBursts(context.Background(), tl)
	require.NoError(t, err)
	require.Len(t, bursts, 1)
	assert.Equal(t, []string{"e1", "e2", "e3", "e4"}, bursts[0].EventIDs)

	// Post-merge, no two bursts may share more than half their events
	for i := range bursts {
		for j := i + 1; j < len(bursts); j++ {
			assert.LessOrEqual(t, eventOverlap(bursts[i].EventIDs, bursts[j].EventIDs), 0.5)
		}
	}
}

func TestDetectBursts_AdaptiveParams(t *testing.T) {
	b := newTestBurster(t, DefaultBurstConfig())

	tests := []struct {
		name         string
		spanDays     int
		eventCount   int
		wantWindow   time.Duration
		wantMinEvent int
	}{
		{"sparse timeline widens the window", 365, 20, 720 * time.Hour, 3},
		{"medium density keeps weekly window", 100, 30, 168 * time.Hour, 5},
		{"dense timeline raises the bar", 30, 60, 168 * time.Hour, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []core.CommunicationEvent
			step := time.Duration(tt.spanDays) * 24 * time.Hour / time.Duration(tt.eventCount-1)
			for i := 0; i < tt.eventCount; i++ {
				events = append(events, ev(
					fmt.Sprintf("e%d", i),
					day(0).Add(time.Duration(i)*step),
					core.KindEmail,
					[]string{"a@x.com"},
				))
			}
			cfg := b.adaptiveParams(core.NewTimeline(events))
			assert.Equal(t, tt.wantWindow, cfg.Window)
			assert.Equal(t, tt.wantMinEvent, cfg.MinEvents)
		})
	}
}

func TestEventOverlap(t *testing.T) {
	assert.Equal(t, 0.0, eventOverlap(nil, []string{"a"}))
	assert.Equal(t, 1.0, eventOverlap([]string{"a", "b"}, []string{"a", "b", "c"}))
	assert.Equal(t, 0.5, eventOverlap([]string{"a", "b"}, []string{"b", "c"}))
}

func TestMergeBursts(t *testing.T) {
	a := core.Burst{
		WindowStart:  day(0),
		WindowEnd:    day(3),
		EventIDs:     []string{"e1", "e2"},
		Participants: []string{"a@x.com"},
		Confidence:   0.5,
	}
	b := core.Burst{
		WindowStart:  day(1),
		WindowEnd:    day(5),
		EventIDs:     []string{"e2", "e3"},
		Participants: []string{"b@x.com"},
		Confidence:   0.7,
	}

	merged := mergeBursts(a, b)
	assert.Equal(t, day(0), merged.WindowStart)
	assert.Equal(t, day(5), merged.WindowEnd)
	assert.Equal(t, []string{"e1", "e2", "e3"}, merged.EventIDs)
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, merged.Participants)
	assert.Equal(t, 0.7, merged.Confidence)
}
