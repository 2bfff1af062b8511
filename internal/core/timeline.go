package core

import (
	"sort"
	"time"
)

// Timeline is an immutable, time-ordered view over validated communication
// events. It is built once from externally validated input and treated as
// read-only for the remainder of an analysis pass.
type Timeline struct {
	events []CommunicationEvent
}

// NewTimeline builds a Timeline from a deduplicated collection of valid
// events. Events are stably sorted ascending by timestamp, so ties keep
// their insertion order. Duplicate ids keep the first occurrence. An empty
// collection yields an empty Timeline, not an error.
func NewTimeline(events []CommunicationEvent) *Timeline {
	deduped := make([]CommunicationEvent, 0, len(events))
	seen := make(map[string]struct{}, len(events))
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		deduped = append(deduped, e)
	}

	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Timestamp.Before(deduped[j].Timestamp)
	})

	return &Timeline{events: deduped}
}

// Len returns the number of events on the timeline
func (t *Timeline) Len() int {
	return len(t.events)
}

// Events returns the ordered events. Callers must not mutate the returned
// slice.
func (t *Timeline) Events() []CommunicationEvent {
	return t.events
}

// At returns the event at position i in chronological order
func (t *Timeline) At(i int) CommunicationEvent {
	return t.events[i]
}

// Start returns the timestamp of the earliest event. Zero time for an
// empty timeline.
func (t *Timeline) Start() time.Time {
	if len(t.events) == 0 {
		return time.Time{}
	}
	return t.events[0].Timestamp
}

// End returns the timestamp of the latest event. Zero time for an empty
// timeline.
func (t *Timeline) End() time.Time {
	if len(t.events) == 0 {
		return time.Time{}
	}
	return t.events[len(t.events)-1].Timestamp
}

// SpanDays returns the timeline span in fractional days, never less than
// one so density math stays divisible.
func (t *Timeline) SpanDays() float64 {
	if len(t.events) < 2 {
		return 1
	}
	days := t.End().Sub(t.Start()).Hours() / 24
	if days < 1 {
		return 1
	}
	return days
}

// Density returns events per day over the timeline span
func (t *Timeline) Density() float64 {
	if len(t.events) == 0 {
		return 0
	}
	return float64(len(t.events)) / t.SpanDays()
}

// Between returns the events with timestamps in [start, end], in order
func (t *Timeline) Between(start, end time.Time) []CommunicationEvent {
	lo := sort.Search(len(t.events), func(i int) bool {
		return !t.events[i].Timestamp.Before(start)
	})
	hi := sort.Search(len(t.events), func(i int) bool {
		return t.events[i].Timestamp.After(end)
	})
	if lo >= hi {
		return nil
	}
	return t.events[lo:hi]
}

// Participants returns the distinct participant keys across all events,
// sorted for deterministic output.
func (t *Timeline) Participants() []string {
	set := make(map[string]struct{})
	for _, e := range t.events {
		for _, p := range e.Participants {
			set[p] = struct{}{}
		}
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Stats summarizes the timeline for reporting
func (t *Timeline) Stats() TimelineStats {
	stats := TimelineStats{
		EventCount:       len(t.events),
		ParticipantCount: len(t.Participants()),
		Start:            t.Start(),
		End:              t.End(),
	}
	for _, e := range t.events {
		switch e.Kind {
		case KindEmail:
			stats.EmailCount++
		case KindMeeting:
			stats.MeetingCount++
		}
	}
	if len(t.events) > 0 {
		stats.SpanDays = t.SpanDays()
		stats.EventsPerDay = t.Density()
	}
	return stats
}
