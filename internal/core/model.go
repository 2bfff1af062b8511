package core

import (
	"time"
)

// EventKind identifies the communication channel an event came from
type EventKind string

const (
	KindEmail   EventKind = "email"
	KindMeeting EventKind = "meeting"
)

// EventKinds lists every kind the system knows about. The burst detector
// uses its length to score channel diversity.
var EventKinds = []EventKind{KindEmail, KindMeeting}

// CommunicationEvent represents a single email thread or meeting.
// Events are immutable once created.
type CommunicationEvent struct {
	ID           string
	Timestamp    time.Time
	Kind         EventKind
	Participants []string
	Title        string
	Body         string
}

// ParticipantSet returns the event's participants as a set keyed by
// normalized address.
func (e *CommunicationEvent) ParticipantSet() map[string]struct{} {
	set := make(map[string]struct{}, len(e.Participants))
	for _, p := range e.Participants {
		set[p] = struct{}{}
	}
	return set
}

// Participant is a person identified by their normalized lower-case email
// address. Two events referencing the same key refer to the same person.
type Participant struct {
	Key          string
	DisplayName  string
	Organization string
}

// Burst is a window of unusually dense multi-participant activity
type Burst struct {
	WindowStart  time.Time
	WindowEnd    time.Time
	EventIDs     []string
	Participants []string
	Confidence   float64
}

// MilestoneCategory classifies what kind of milestone an event matched
type MilestoneCategory string

const (
	MilestoneDeliverable   MilestoneCategory = "deliverable"
	MilestonePlanning      MilestoneCategory = "planning"
	MilestoneDecisionPoint MilestoneCategory = "decision_point"
)

// Milestone tags a single event as a project milestone. An event may yield
// several milestones, one per matching category.
type Milestone struct {
	Date            time.Time
	EventID         string
	Category        MilestoneCategory
	Confidence      float64
	KeywordEvidence []string
	FollowUpCount   int
}

// PhaseTransition marks a boundary between two analysis windows whose
// dominant topics diverged
type PhaseTransition struct {
	BoundaryDate time.Time
	PrevKeywords []string
	NewKeywords  []string
	Similarity   float64
	Confidence   float64
}

// HandoffCategory classifies a participant-set change between two events
type HandoffCategory string

const (
	HandoffGapResumption HandoffCategory = "gap_resumption"
	HandoffTeamTurnover  HandoffCategory = "team_turnover"
	HandoffTeamExpansion HandoffCategory = "team_expansion"
	HandoffDeparture     HandoffCategory = "departure"
)

// HandoffEvent records a classified change in the active participant set
type HandoffEvent struct {
	Date       time.Time
	Joined     []string
	Departed   []string
	Category   HandoffCategory
	Confidence float64
}

// SentimentLabel is the coarse lexicon-derived tone of an event
type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNeutral  SentimentLabel = "neutral"
	SentimentNegative SentimentLabel = "negative"
)

// SentimentRecord is the per-event output of the lexicon sentiment analyzer
type SentimentRecord struct {
	EventID      string
	Date         time.Time
	Label        SentimentLabel
	Score        float64
	PositiveHits int
	NegativeHits int
}

// ParticipantRole classifies a participant by influence and activity
type ParticipantRole string

const (
	RoleStrategicLeader ParticipantRole = "strategic_leader"
	RoleActiveLeader    ParticipantRole = "active_leader"
	RoleExecutor        ParticipantRole = "executor"
	RoleContributor     ParticipantRole = "contributor"
)

// InfluenceScore ranks a participant by PageRank over the collaboration
// network
type InfluenceScore struct {
	Participant  string
	Score        float64
	EventCount   int
	EmailCount   int
	MeetingCount int
	Role         ParticipantRole
	Rank         int
}

// TimelineStats summarizes the analyzed timeline for reporting
type TimelineStats struct {
	EventCount       int
	EmailCount       int
	MeetingCount     int
	ParticipantCount int
	Start            time.Time
	End              time.Time
	SpanDays         float64
	EventsPerDay     float64
}

// AnalysisReport is the result object produced by one pipeline run. It is
// built once by the AnalysisService and handed read-only to stores and
// report writers.
type AnalysisReport struct {
	RunID       string
	GeneratedAt time.Time
	Timeline    TimelineStats
	Graph       GraphStats
	Bursts      []Burst
	Milestones  []Milestone
	Transitions []PhaseTransition
	Handoffs    []HandoffEvent
	Sentiment   []SentimentRecord
	Influence   []InfluenceScore
}
