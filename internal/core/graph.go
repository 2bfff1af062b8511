package core

import (
	"sort"
	"strings"
)

// NodeType distinguishes the two layers of the collaboration graph
type NodeType string

const (
	NodePerson NodeType = "person"
	NodeEvent  NodeType = "event"
)

// Node is a vertex in the collaboration graph: one per distinct
// participant key plus one per event.
type Node struct {
	ID   string
	Type NodeType
}

// ParticipationEdge links a participant to an event they took part in
type ParticipationEdge struct {
	Participant string
	EventID     string
	Timestamp   int64
}

// TemporalEdge links an event to its immediate chronological successor,
// carrying the gap in hours. The temporal layer is a simple chain, not
// all-pairs.
type TemporalEdge struct {
	FromEventID string
	ToEventID   string
	GapHours    float64
}

// GraphStats summarizes the graph for reporting
type GraphStats struct {
	PersonNodes        int
	EventNodes         int
	ParticipationEdges int
	TemporalEdges      int
	Density            float64
}

// CollaborationGraph is the bipartite person/event graph with temporal
// adjacency edges, derived from a Timeline. It is read-only during
// detection.
type CollaborationGraph struct {
	persons        []Node
	events         []Node
	participation  []ParticipationEdge
	temporal       []TemporalEdge
	eventsByPerson map[string][]string
	personsByEvent map[string][]string
}

// BuildGraph derives the collaboration graph from a timeline. Participant
// keys merge case-insensitively. An empty timeline yields an empty graph.
func BuildGraph(t *Timeline) *CollaborationGraph {
	g := &CollaborationGraph{
		eventsByPerson: make(map[string][]string),
		personsByEvent: make(map[string][]string),
	}

	personSeen := make(map[string]struct{})
	for _, e := range t.Events() {
		g.events = append(g.events, Node{ID: e.ID, Type: NodeEvent})
		for _, p := range e.Participants {
			key := strings.ToLower(p)
			if _, ok := personSeen[key]; !ok {
				personSeen[key] = struct{}{}
				g.persons = append(g.persons, Node{ID: key, Type: NodePerson})
			}
			g.participation = append(g.participation, ParticipationEdge{
				Participant: key,
				EventID:     e.ID,
				Timestamp:   e.Timestamp.Unix(),
			})
			g.eventsByPerson[key] = append(g.eventsByPerson[key], e.ID)
			g.personsByEvent[e.ID] = append(g.personsByEvent[e.ID], key)
		}
	}

	sort.Slice(g.persons, func(i, j int) bool { return g.persons[i].ID < g.persons[j].ID })

	events := t.Events()
	for i := 1; i < len(events); i++ {
		g.temporal = append(g.temporal, TemporalEdge{
			FromEventID: events[i-1].ID,
			ToEventID:   events[i].ID,
			GapHours:    events[i].Timestamp.Sub(events[i-1].Timestamp).Hours(),
		})
	}

	return g
}

// Persons returns the person nodes sorted by key
func (g *CollaborationGraph) Persons() []Node {
	return g.persons
}

// EventNodes returns the event nodes in chronological order
func (g *CollaborationGraph) EventNodes() []Node {
	return g.events
}

// Participation returns all participation edges
func (g *CollaborationGraph) Participation() []ParticipationEdge {
	return g.participation
}

// Temporal returns the chain of temporal edges
func (g *CollaborationGraph) Temporal() []TemporalEdge {
	return g.temporal
}

// EventsOf returns the ids of events a participant took part in, in
// chronological order.
func (g *CollaborationGraph) EventsOf(participant string) []string {
	return g.eventsByPerson[strings.ToLower(participant)]
}

// ParticipantsOf returns the participant keys of an event
func (g *CollaborationGraph) ParticipantsOf(eventID string) []string {
	return g.personsByEvent[eventID]
}

// Stats computes node/edge counts and graph density, where density is
// edges over possible edges among all nodes.
func (g *CollaborationGraph) Stats() GraphStats {
	stats := GraphStats{
		PersonNodes:        len(g.persons),
		EventNodes:         len(g.events),
		ParticipationEdges: len(g.participation),
		TemporalEdges:      len(g.temporal),
	}
	n := stats.PersonNodes + stats.EventNodes
	if n > 1 {
		possible := float64(n) * float64(n-1) / 2
		stats.Density = float64(stats.ParticipationEdges+stats.TemporalEdges) / possible
	}
	return stats
}
