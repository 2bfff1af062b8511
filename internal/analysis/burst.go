package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// BurstConfig carries the burst detector parameters. The adaptation rule
// (monotonic, density-keyed) is the contract; the literal numbers are
// overridable defaults.
type BurstConfig struct {
	Window          time.Duration
	MinEvents       int
	MinParticipants int
	MaxParticipants int
	Adaptive        bool
}

// DefaultBurstConfig returns the medium-density defaults with adaptation
// enabled
func DefaultBurstConfig() BurstConfig {
	return BurstConfig{
		Window:          168 * time.Hour,
		MinEvents:       5,
		MinParticipants: 3,
		MaxParticipants: 15,
		Adaptive:        true,
	}
}

// Validate rejects out-of-range parameters at construction time
func (c BurstConfig) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("burst window must be positive, got %s", c.Window)
	}
	if c.MinEvents <= 0 {
		return fmt.Errorf("burst min_events must be positive, got %d", c.MinEvents)
	}
	if c.MinParticipants <= 0 {
		return fmt.Errorf("burst min_participants must be positive, got %d", c.MinParticipants)
	}
	if c.MaxParticipants < c.MinParticipants {
		return fmt.Errorf("burst max_participants %d below min_participants %d",
			c.MaxParticipants, c.MinParticipants)
	}
	return nil
}

// Burster finds windows of elevated, multi-participant collaboration
// intensity on a timeline
type Burster struct {
	cfg    BurstConfig
	logger *zap.Logger
}

// NewBurster creates a burst detector, validating its configuration
func NewBurster(cfg BurstConfig, logger *zap.Logger) (*Burster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Burster{cfg: cfg, logger: logger}, nil
}

// adaptiveParams maps dataset density (events/day) to window length and
// thresholds. Sparser data gets longer windows and fewer required events;
// the table is monotonic in density.
func (d *Burster) adaptiveParams(t *core.Timeline) BurstConfig {
	cfg := d.cfg
	density := t.Density()

	switch {
	case density < 0.1:
		cfg.Window = 720 * time.Hour
		cfg.MinEvents = 3
		cfg.MinParticipants = 2
		cfg.MaxParticipants = 20
	case density < 0.5:
		cfg.Window = 168 * time.Hour
		cfg.MinEvents = 5
		cfg.MinParticipants = 3
		cfg.MaxParticipants = 15
	default:
		cfg.Window = 168 * time.Hour
		cfg.MinEvents = 8
		cfg.MinParticipants = 3
		cfg.MaxParticipants = 10
	}

	d.logger.Info("Adaptive burst parameters selected",
		zap.Float64("events_per_day", density),
		zap.Duration("window", cfg.Window),
		zap.Int("min_events", cfg.MinEvents),
		zap.Int("min_participants", cfg.MinParticipants),
		zap.Int("max_participants", cfg.MaxParticipants))

	return cfg
}

// DetectBursts scans the timeline with a sliding window anchored at each
// event and emits deduplicated bursts in ascending start order. A timeline
// with fewer than min_events total events yields an empty result.
func (d *Burster) DetectBursts(ctx context.Context, t *core.Timeline) ([]core.Burst, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := d.cfg
	if cfg.Adaptive {
		cfg = d.adaptiveParams(t)
	}

	events := t.Events()
	if len(events) < cfg.MinEvents {
		return nil, nil
	}

	var candidates []core.Burst
	for i := range events {
		if c, ok := d.windowAt(events, i, cfg); ok {
			candidates = append(candidates, c)
		}
	}

	bursts := dedupBursts(candidates)
	d.logger.Info("Burst detection complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("bursts", len(bursts)))
	return bursts, nil
}

// windowAt collects the events within [start, start+window] that are
// connected to the window by at least one shared participant, so an
// unrelated event landing inside the window does not inflate the burst.
func (d *Burster) windowAt(events []core.CommunicationEvent, i int, cfg BurstConfig) (core.Burst, bool) {
	start := events[i].Timestamp
	end := start.Add(cfg.Window)

	members := []core.CommunicationEvent{events[i]}
	participants := events[i].ParticipantSet()

	for j := i + 1; j < len(events) && !events[j].Timestamp.After(end); j++ {
		if !sharesParticipant(events[j], participants) {
			continue
		}
		members = append(members, events[j])
		for _, p := range events[j].Participants {
			participants[p] = struct{}{}
		}
	}

	if len(members) < cfg.MinEvents {
		return core.Burst{}, false
	}
	if len(participants) < cfg.MinParticipants || len(participants) > cfg.MaxParticipants {
		return core.Burst{}, false
	}

	ids := make([]string, len(members))
	for k, m := range members {
		ids[k] = m.ID
	}

	return core.Burst{
		WindowStart:  start,
		WindowEnd:    members[len(members)-1].Timestamp,
		EventIDs:     ids,
		Participants: sortedKeys(participants),
		Confidence:   burstConfidence(members, participants, cfg),
	}, true
}

func sharesParticipant(e core.CommunicationEvent, set map[string]struct{}) bool {
	for _, p := range e.Participants {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}

// burstConfidence blends event density, participation balance and channel
// diversity:
//
//	0.4·density + 0.3·(1 − Gini(per-participant counts)) + 0.3·diversity
//
// where density normalizes the event count by window capacity, read as
// twice the qualifying threshold.
func burstConfidence(events []core.CommunicationEvent, participants map[string]struct{}, cfg BurstConfig) float64 {
	densityScore := clip(float64(len(events)) / float64(2*cfg.MinEvents))

	counts := make(map[string]int, len(participants))
	for _, e := range events {
		for _, p := range e.Participants {
			counts[p]++
		}
	}
	values := make([]int, 0, len(counts))
	for _, v := range counts {
		values = append(values, v)
	}
	balanceScore := 1 - Gini(values)

	kinds := make(map[core.EventKind]struct{})
	for _, e := range events {
		kinds[e.Kind] = struct{}{}
	}
	diversityScore := float64(len(kinds)) / float64(len(core.EventKinds))

	return clip(0.4*densityScore + 0.3*balanceScore + 0.3*diversityScore)
}

// dedupBursts merges candidates whose event sets overlap more than 50%,
// keeping the envelope and the higher confidence. Merging repeats until no
// two remaining bursts overlap past the threshold.
func dedupBursts(candidates []core.Burst) []core.Burst {
	bursts := candidates
	for {
		merged := false
		var next []core.Burst
		for _, c := range bursts {
			absorbed := false
			for k := range next {
				if eventOverlap(next[k].EventIDs, c.EventIDs) > 0.5 {
					next[k] = mergeBursts(next[k], c)
					absorbed = true
					merged = true
					break
				}
			}
			if !absorbed {
				next = append(next, c)
			}
		}
		bursts = next
		if !merged {
			return bursts
		}
	}
}

// eventOverlap is the shared fraction relative to the smaller event set
func eventOverlap(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	shared := 0
	for _, id := range b {
		if _, ok := setA[id]; ok {
			shared++
		}
	}
	smaller := len(a)
	if len(b) < smaller {
		smaller = len(b)
	}
	return float64(shared) / float64(smaller)
}

func mergeBursts(a, b core.Burst) core.Burst {
	out := a
	if b.WindowStart.Before(out.WindowStart) {
		out.WindowStart = b.WindowStart
	}
	if b.WindowEnd.After(out.WindowEnd) {
		out.WindowEnd = b.WindowEnd
	}
	if b.Confidence > out.Confidence {
		out.Confidence = b.Confidence
	}

	ids := make(map[string]struct{}, len(a.EventIDs)+len(b.EventIDs))
	var ordered []string
	for _, id := range append(append([]string{}, a.EventIDs...), b.EventIDs...) {
		if _, ok := ids[id]; ok {
			continue
		}
		ids[id] = struct{}{}
		ordered = append(ordered, id)
	}
	out.EventIDs = ordered

	parts := make(map[string]struct{}, len(a.Participants)+len(b.Participants))
	for _, p := range a.Participants {
		parts[p] = struct{}{}
	}
	for _, p := range b.Participants {
		parts[p] = struct{}{}
	}
	out.Participants = sortedKeys(parts)

	return out
}
