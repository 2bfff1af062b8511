package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
)

// CSVWriter renders each finding kind to its own CSV file under the
// output directory
type CSVWriter struct {
	outputDir string
	logger    *zap.Logger
}

// NewCSVWriter creates a new CSV report writer
func NewCSVWriter(outputDir string, logger *zap.Logger) *CSVWriter {
	return &CSVWriter{
		outputDir: outputDir,
		logger:    logger,
	}
}

// WriteReport renders the report to the writer's configured target
func (w *CSVWriter) WriteReport(_ context.Context, report *core.AnalysisReport) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	files := map[string]func(*csv.Writer) error{
		"collaboration_bursts.csv": func(cw *csv.Writer) error { return w.writeBursts(cw, report.Bursts) },
		"milestones.csv":           func(cw *csv.Writer) error { return w.writeMilestones(cw, report.Milestones) },
		"phase_transitions.csv":    func(cw *csv.Writer) error { return w.writeTransitions(cw, report.Transitions) },
		"handoffs.csv":             func(cw *csv.Writer) error { return w.writeHandoffs(cw, report.Handoffs) },
		"sentiment_timeline.csv":   func(cw *csv.Writer) error { return w.writeSentiment(cw, report.Sentiment) },
		"influence_scores.csv":     func(cw *csv.Writer) error { return w.writeInfluence(cw, report.Influence) },
	}

	for name, write := range files {
		if err := w.writeFile(name, write); err != nil {
			return err
		}
	}

	w.logger.Info("Wrote CSV reports",
		zap.String("dir", w.outputDir),
		zap.Int("files", len(files)))
	return nil
}

func (w *CSVWriter) writeFile(name string, write func(*csv.Writer) error) error {
	path := filepath.Join(w.outputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := write(cw); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	cw.Flush()
	return cw.Error()
}

func (w *CSVWriter) writeBursts(cw *csv.Writer, bursts []core.Burst) error {
	if err := cw.Write([]string{"start", "end", "duration_hours", "event_count", "participant_count", "participants", "confidence"}); err != nil {
		return err
	}
	for _, b := range bursts {
		row := []string{
			b.WindowStart.Format(time.RFC3339),
			b.WindowEnd.Format(time.RFC3339),
			formatFloat(b.WindowEnd.Sub(b.WindowStart).Hours(), 1),
			strconv.Itoa(len(b.EventIDs)),
			strconv.Itoa(len(b.Participants)),
			strings.Join(b.Participants, ";"),
			formatFloat(b.Confidence, 2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeMilestones(cw *csv.Writer, milestones []core.Milestone) error {
	if err := cw.Write([]string{"date", "event_id", "category", "confidence", "keyword_evidence", "follow_up_count"}); err != nil {
		return err
	}
	for _, m := range milestones {
		row := []string{
			m.Date.Format(time.RFC3339),
			m.EventID,
			string(m.Category),
			formatFloat(m.Confidence, 2),
			strings.Join(m.KeywordEvidence, ";"),
			strconv.Itoa(m.FollowUpCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeTransitions(cw *csv.Writer, transitions []core.PhaseTransition) error {
	if err := cw.Write([]string{"date", "previous_keywords", "new_keywords", "similarity", "confidence"}); err != nil {
		return err
	}
	for _, t := range transitions {
		row := []string{
			t.BoundaryDate.Format(time.RFC3339),
			strings.Join(t.PrevKeywords, ";"),
			strings.Join(t.NewKeywords, ";"),
			formatFloat(t.Similarity, 4),
			formatFloat(t.Confidence, 2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeHandoffs(cw *csv.Writer, handoffs []core.HandoffEvent) error {
	if err := cw.Write([]string{"date", "category", "joined", "departed", "confidence"}); err != nil {
		return err
	}
	for _, h := range handoffs {
		row := []string{
			h.Date.Format(time.RFC3339),
			string(h.Category),
			strings.Join(h.Joined, ";"),
			strings.Join(h.Departed, ";"),
			formatFloat(h.Confidence, 2),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeSentiment(cw *csv.Writer, records []core.SentimentRecord) error {
	if err := cw.Write([]string{"date", "event_id", "sentiment", "score", "positive_hits", "negative_hits"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(time.RFC3339),
			r.EventID,
			string(r.Label),
			formatFloat(r.Score, 4),
			strconv.Itoa(r.PositiveHits),
			strconv.Itoa(r.NegativeHits),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (w *CSVWriter) writeInfluence(cw *csv.Writer, scores []core.InfluenceScore) error {
	if err := cw.Write([]string{"rank", "participant", "influence_score", "role", "total_events", "emails", "meetings"}); err != nil {
		return err
	}
	for _, s := range scores {
		row := []string{
			strconv.Itoa(s.Rank),
			s.Participant,
			formatFloat(s.Score, 4),
			string(s.Role),
			strconv.Itoa(s.EventCount),
			strconv.Itoa(s.EmailCount),
			strconv.Itoa(s.MeetingCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
