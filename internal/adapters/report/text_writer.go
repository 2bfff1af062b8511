package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// TextWriter renders a human-readable summary of the analysis run
type TextWriter struct {
	outputDir string
	logger    *zap.Logger
}

// NewTextWriter creates a new plain-text report writer
func NewTextWriter(outputDir string, logger *zap.Logger) *TextWriter {
	return &TextWriter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// WriteReport renders the report to the writer's configured target
func (w *TextWriter) WriteReport(_ context.Context, report *core.AnalysisReport) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, fmt.Sprintf("summary_%s.txt", report.RunID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file: %w", err)
	}
	defer f.Close()

	var b strings.Builder
	rule := strings.Repeat("=", 70)
	sep := strings.Repeat("-", 70)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "     CHRONOLENS - COMMUNICATION TIMELINE ANALYSIS REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "\nRun: %s\nGenerated: %s\n", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04:05"))

	w.writeOverview(&b, sep, report)
	w.writeGraph(&b, sep, report.Graph)
	w.writeBursts(&b, sep, report.Bursts)
	w.writeMilestones(&b, sep, report.Milestones)
	w.writeTransitions(&b, sep, report.Transitions)
	w.writeHandoffs(&b, sep, report.Handoffs)
	w.writeSentiment(&b, sep, report.Sentiment)
	w.writeInfluence(&b, sep, report.Influence)

	fmt.Fprintf(&b, "\n%s\nEND OF REPORT\n%s\n", rule, rule)

	if _, err := f.WriteString(b.String()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}

	w.logger.Info("Wrote summary report", zap.String("path", path))
	return nil
}

func (w *TextWriter) writeOverview(b *strings.Builder, sep string, report *core.AnalysisReport) {
	tl := report.Timeline
	fmt.Fprintf(b, "\n%s\nPROJECT OVERVIEW\n%s\n", sep, sep)
	fmt.Fprintf(b, "Timeline Span: %s to %s\n", tl.Start.Format("2006-01-02"), tl.End.Format("2006-01-02"))
	fmt.Fprintf(b, "Total Duration: %.0f days\n", tl.SpanDays)
	fmt.Fprintf(b, "Total Events: %d\n", tl.EventCount)
	fmt.Fprintf(b, "  - Email Threads: %d\n", tl.EmailCount)
	fmt.Fprintf(b, "  - Meetings: %d\n", tl.MeetingCount)
	fmt.Fprintf(b, "Participants: %d\n", tl.ParticipantCount)
	fmt.Fprintf(b, "Events/Day: %.2f\n", tl.EventsPerDay)
}

func (w *TextWriter) writeGraph(b *strings.Builder, sep string, stats core.GraphStats) {
	fmt.Fprintf(b, "\n%s\nCOLLABORATION NETWORK\n%s\n", sep, sep)
	fmt.Fprintf(b, "Total Nodes: %d\n", stats.PersonNodes+stats.EventNodes)
	fmt.Fprintf(b, "  - People: %d\n", stats.PersonNodes)
	fmt.Fprintf(b, "  - Events: %d\n", stats.EventNodes)
	fmt.Fprintf(b, "Participation Edges: %d\n", stats.ParticipationEdges)
	fmt.Fprintf(b, "Temporal Links: %d\n", stats.TemporalEdges)
	fmt.Fprintf(b, "Graph Density: %.4f\n", stats.Density)
}

func (w *TextWriter) writeBursts(b *strings.Builder, sep string, bursts []core.Burst) {
	fmt.Fprintf(b, "\n%s\nCOLLABORATION BURSTS\n%s\n", sep, sep)
	if len(bursts) == 0 {
		fmt.Fprintln(b, "No collaboration bursts detected with current parameters.")
		return
	}
	fmt.Fprintf(b, "Total Bursts Detected: %d\n", len(bursts))
	for i, burst := range bursts {
		fmt.Fprintf(b, "\nBurst #%d:\n", i+1)
		fmt.Fprintf(b, "  Period: %s to %s\n",
			burst.WindowStart.Format("2006-01-02"), burst.WindowEnd.Format("2006-01-02"))
		fmt.Fprintf(b, "  Duration: %.1f hours\n", burst.WindowEnd.Sub(burst.WindowStart).Hours())
		fmt.Fprintf(b, "  Events: %d\n", len(burst.EventIDs))
		fmt.Fprintf(b, "  Participants: %d\n", len(burst.Participants))
		fmt.Fprintf(b, "  Confidence: %.2f\n", burst.Confidence)
	}
}

func (w *TextWriter) writeMilestones(b *strings.Builder, sep string, milestones []core.Milestone) {
	fmt.Fprintf(b, "\n%s\nPROJECT MILESTONES\n%s\n", sep, sep)
	if len(milestones) == 0 {
		fmt.Fprintln(b, "No milestones detected.")
		return
	}
	fmt.Fprintf(b, "Total Milestones Detected: %d\n", len(milestones))
	for _, category := range []core.MilestoneCategory{
		core.MilestoneDecisionPoint, core.MilestoneDeliverable, core.MilestonePlanning,
	} {
		var subset []core.Milestone
		for _, m := range milestones {
			if m.Category == category {
				subset = append(subset, m)
			}
		}
		if len(subset) == 0 {
			continue
		}
		fmt.Fprintf(b, "\n%s (%d):\n", strings.ReplaceAll(string(category), "_", " "), len(subset))
		for _, m := range limitMilestones(subset, 5) {
			fmt.Fprintf(b, "  - %s [%.2f] evidence: %s\n",
				m.Date.Format("2006-01-02"), m.Confidence, strings.Join(m.KeywordEvidence, ", "))
		}
	}
}

func (w *TextWriter) writeTransitions(b *strings.Builder, sep string, transitions []core.PhaseTransition) {
	fmt.Fprintf(b, "\n%s\nPHASE TRANSITIONS\n%s\n", sep, sep)
	if len(transitions) == 0 {
		fmt.Fprintln(b, "No phase transitions detected.")
		return
	}
	for _, t := range transitions {
		fmt.Fprintf(b, "  - %s: [%s] -> [%s] (similarity %.2f, confidence %.2f)\n",
			t.BoundaryDate.Format("2006-01-02"),
			strings.Join(t.PrevKeywords, ", "), strings.Join(t.NewKeywords, ", "),
			t.Similarity, t.Confidence)
	}
}

func (w *TextWriter) writeHandoffs(b *strings.Builder, sep string, handoffs []core.HandoffEvent) {
	fmt.Fprintf(b, "\n%s\nHANDOFF EVENTS\n%s\n", sep, sep)
	if len(handoffs) == 0 {
		fmt.Fprintln(b, "No handoff events detected.")
		return
	}
	for _, h := range handoffs {
		fmt.Fprintf(b, "  - %s [%s]: %d joined, %d departed (confidence %.2f)\n",
			h.Date.Format("2006-01-02"), h.Category, len(h.Joined), len(h.Departed), h.Confidence)
	}
}

func (w *TextWriter) writeSentiment(b *strings.Builder, sep string, records []core.SentimentRecord) {
	fmt.Fprintf(b, "\n%s\nSENTIMENT SUMMARY\n%s\n", sep, sep)
	if len(records) == 0 {
		fmt.Fprintln(b, "No sentiment data available.")
		return
	}
	counts := map[core.SentimentLabel]int{}
	for _, r := range records {
		counts[r.Label]++
	}
	for _, label := range []core.SentimentLabel{core.SentimentPositive, core.SentimentNeutral, core.SentimentNegative} {
		fmt.Fprintf(b, "  %s: %d\n", label, counts[label])
	}
}

func (w *TextWriter) writeInfluence(b *strings.Builder, sep string, scores []core.InfluenceScore) {
	fmt.Fprintf(b, "\n%s\nTOP PARTICIPANTS (by influence)\n%s\n", sep, sep)
	if len(scores) == 0 {
		fmt.Fprintln(b, "No influence data available.")
		return
	}
	limit := len(scores)
	if limit > 10 {
		limit = 10
	}
	for _, s := range scores[:limit] {
		fmt.Fprintf(b, "%2d. %-40s | %-16s | score=%.4f, %d events (%dE, %dM)\n",
			s.Rank, s.Participant, s.Role, s.Score, s.EventCount, s.EmailCount, s.MeetingCount)
	}
}

func limitMilestones(milestones []core.Milestone, n int) []core.Milestone {
	if len(milestones) <= n {
		return milestones
	}
	return milestones[:n]
}
