package source

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/exclusions"
)

// timestamp layouts accepted in export files, tried in order
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// emailThread is the shape of one record in the email export file
type emailThread struct {
	ThreadID     string   `json:"thread_id"`
	Subject      string   `json:"subject"`
	Participants []string `json:"participants"`
	FirstDate    string   `json:"first_date"`
	EmailCount   int      `json:"email_count"`
	Emails       []struct {
		BodyText string `json:"body_text"`
	} `json:"emails"`
}

// calendarEvent is the shape of one record in the calendar export file
type calendarEvent struct {
	UID         string   `json:"uid"`
	Summary     string   `json:"summary"`
	Start       string   `json:"start"`
	Organizer   string   `json:"organizer"`
	Attendees   []string `json:"attendees"`
	Description string   `json:"description"`
}

// JSONSource loads communication events from email and calendar JSON
// export files. Malformed records are logged and skipped, never fatal:
// the core may assume every event it receives has a valid timestamp and a
// non-empty participant set.
type JSONSource struct {
	emailPath    string
	calendarPath string
	excluded     *exclusions.Checker
	logger       *zap.Logger
}

// NewJSONSource creates a new export-file source
func NewJSONSource(emailPath, calendarPath string, excluded *exclusions.Checker, logger *zap.Logger) *JSONSource {
	return &JSONSource{
		emailPath:    emailPath,
		calendarPath: calendarPath,
		excluded:     excluded,
		logger:       logger,
	}
}

// Load reads both export files, validates and normalizes every record,
// and returns the deduplicated event collection.
func (s *JSONSource) Load(ctx context.Context) ([]core.CommunicationEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var events []core.CommunicationEvent

	emails, err := s.loadEmails()
	if err != nil {
		return nil, err
	}
	events = append(events, emails...)

	meetings, err := s.loadCalendar()
	if err != nil {
		return nil, err
	}
	events = append(events, meetings...)

	events = dedupeByID(events)
	s.logger.Info("Loaded events from export files",
		zap.Int("emails", len(emails)),
		zap.Int("meetings", len(meetings)),
		zap.Int("after_dedup", len(events)))
	return events, nil
}

func (s *JSONSource) loadEmails() ([]core.CommunicationEvent, error) {
	raw, err := os.ReadFile(s.emailPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read email export: %w", err)
	}

	var threads []emailThread
	if err := json.Unmarshal(raw, &threads); err != nil {
		return nil, fmt.Errorf("failed to parse email export: %w", err)
	}

	var events []core.CommunicationEvent
	for i, th := range threads {
		ts, ok := parseTimestamp(th.FirstDate)
		if !ok {
			s.logger.Warn("Skipping email thread with unparsable date",
				zap.String("subject", th.Subject),
				zap.String("date", th.FirstDate))
			continue
		}

		participants := s.normalizeParticipants(th.Participants)
		if len(participants) == 0 {
			s.logger.Warn("Skipping email thread without valid participants",
				zap.String("subject", th.Subject))
			continue
		}

		id := th.ThreadID
		if id == "" {
			id = fmt.Sprintf("email-%04d", i)
		}

		var body strings.Builder
		for _, e := range th.Emails {
			body.WriteString(e.BodyText)
			body.WriteString("\n")
		}

		events = append(events, core.CommunicationEvent{
			ID:           id,
			Timestamp:    ts,
			Kind:         core.KindEmail,
			Participants: participants,
			Title:        th.Subject,
			Body:         body.String(),
		})
	}
	return events, nil
}

func (s *JSONSource) loadCalendar() ([]core.CommunicationEvent, error) {
	raw, err := os.ReadFile(s.calendarPath)
	if err != nil {
		if os.IsNotExist(err) {
			// A calendar export is optional; email-only datasets are valid
			s.logger.Warn("Calendar export not found, continuing with emails only",
				zap.String("path", s.calendarPath))
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read calendar export: %w", err)
	}

	var meetings []calendarEvent
	if err := json.Unmarshal(raw, &meetings); err != nil {
		return nil, fmt.Errorf("failed to parse calendar export: %w", err)
	}

	var events []core.CommunicationEvent
	for i, m := range meetings {
		ts, ok := parseTimestamp(m.Start)
		if !ok {
			s.logger.Warn("Skipping meeting with unparsable start",
				zap.String("summary", m.Summary),
				zap.String("start", m.Start))
			continue
		}

		attendees := m.Attendees
		if m.Organizer != "" {
			attendees = append([]string{m.Organizer}, attendees...)
		}
		participants := s.normalizeParticipants(attendees)
		if len(participants) == 0 {
			s.logger.Warn("Skipping meeting without valid participants",
				zap.String("summary", m.Summary))
			continue
		}

		id := m.UID
		if id == "" {
			id = fmt.Sprintf("meeting-%04d", i)
		}

		events = append(events, core.CommunicationEvent{
			ID:           id,
			Timestamp:    ts,
			Kind:         core.KindMeeting,
			Participants: participants,
			Title:        m.Summary,
			Body:         m.Description,
		})
	}
	return events, nil
}

// normalizeParticipants lowercases addresses, strips mailto: prefixes,
// drops entries without an @ and applies the exclusion list, keeping
// first-seen order without duplicates.
func (s *JSONSource) normalizeParticipants(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	var keys []string
	for _, r := range raw {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(r, "mailto:")))
		if key == "" || !strings.Contains(key, "@") {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	return s.excluded.Filter(keys)
}

func parseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}

func dedupeByID(events []core.CommunicationEvent) []core.CommunicationEvent {
	seen := make(map[string]struct{}, len(events))
	out := events[:0]
	for _, e := range events {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}

// SpoolSource loads events captured by the ingest daemon: one JSON
// document per line
type SpoolSource struct {
	path     string
	excluded *exclusions.Checker
	logger   *zap.Logger
}

// NewSpoolSource creates a new spool source
func NewSpoolSource(path string, excluded *exclusions.Checker, logger *zap.Logger) *SpoolSource {
	return &SpoolSource{path: path, excluded: excluded, logger: logger}
}

// spoolRecord is the line format written by the ingest daemon
type spoolRecord struct {
	ID           string    `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	Kind         string    `json:"kind"`
	Participants []string  `json:"participants"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
}

// Load reads the spool file line by line, skipping records that fail to
// parse
func (s *SpoolSource) Load(ctx context.Context) ([]core.CommunicationEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spool: %w", err)
	}
	defer f.Close()

	var events []core.CommunicationEvent
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var rec spoolRecord
		if err := json.Unmarshal([]byte(text), &rec); err != nil {
			s.logger.Warn("Skipping malformed spool line",
				zap.Int("line", line), zap.Error(err))
			continue
		}

		participants := s.excluded.Filter(rec.Participants)
		if rec.ID == "" || rec.Timestamp.IsZero() || len(participants) == 0 {
			s.logger.Warn("Skipping invalid spool record",
				zap.Int("line", line), zap.String("id", rec.ID))
			continue
		}

		kind := core.EventKind(rec.Kind)
		if kind != core.KindEmail && kind != core.KindMeeting {
			kind = core.KindEmail
		}

		events = append(events, core.CommunicationEvent{
			ID:           rec.ID,
			Timestamp:    rec.Timestamp.UTC(),
			Kind:         kind,
			Participants: participants,
			Title:        rec.Title,
			Body:         rec.Body,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read spool: %w", err)
	}

	s.logger.Info("Loaded events from spool", zap.Int("events", len(events)))
	return dedupeByID(events), nil
}
