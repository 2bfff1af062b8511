package ingest

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/ports"
	"github.com/meridian/chronolens/internal/utils"
)

// SMTPIngest runs an SMTP server that reduces every accepted message to
// a CommunicationEvent and appends it to the event sink. It captures
// live traffic so later analysis runs can include it without a mailbox
// export.
type SMTPIngest struct {
	sink        ports.EventSink
	tp          *utils.TextProcessor
	logger      *zap.Logger
	listenAddr  string
	domain      string
	maxMsgBytes int64
	maxBodySize int
	server      *smtp.Server
}

// NewSMTPIngest creates a new ingest server
func NewSMTPIngest(
	sink ports.EventSink,
	tp *utils.TextProcessor,
	logger *zap.Logger,
	listenAddr string,
	domain string,
	maxMsgBytes int64,
	maxBodySize int,
) *SMTPIngest {
	return &SMTPIngest{
		sink:        sink,
		tp:          tp,
		logger:      logger,
		listenAddr:  listenAddr,
		domain:      domain,
		maxMsgBytes: maxMsgBytes,
		maxBodySize: maxBodySize,
	}
}

// Start starts the SMTP server in a background goroutine
func (g *SMTPIngest) Start() error {
	g.server = smtp.NewServer(&smtpBackend{ingest: g})
	g.server.Addr = g.listenAddr
	g.server.Domain = g.domain
	g.server.ReadTimeout = 30 * time.Second
	g.server.WriteTimeout = 30 * time.Second
	g.server.MaxMessageBytes = g.maxMsgBytes
	g.server.MaxRecipients = 50
	g.server.AllowInsecureAuth = true

	g.logger.Info("SMTP ingest starting", zap.String("address", g.listenAddr))

	go func() {
		if err := g.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				g.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP server
func (g *SMTPIngest) Stop() error {
	if g.server != nil {
		return g.server.Close()
	}
	return nil
}

// capture parses a received message and appends it to the sink
func (g *SMTPIngest) capture(sender string, recipients []string, data []byte) error {
	msg, err := mail.ReadMessage(strings.NewReader(string(data)))
	if err != nil {
		return fmt.Errorf("failed to parse message: %w", err)
	}

	subject := msg.Header.Get("Subject")
	timestamp, err := msg.Header.Date()
	if err != nil {
		timestamp = time.Now().UTC()
	}

	rawBody, err := io.ReadAll(io.LimitReader(msg.Body, int64(g.maxBodySize)))
	if err != nil {
		return fmt.Errorf("failed to read message body: %w", err)
	}
	body := g.tp.SanitizeUTF8(string(rawBody))

	participants := make([]string, 0, len(recipients)+1)
	seen := make(map[string]struct{})
	for _, addr := range append([]string{sender}, recipients...) {
		key := strings.ToLower(strings.TrimSpace(addr))
		if key == "" || !strings.Contains(key, "@") {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		participants = append(participants, key)
	}
	if len(participants) == 0 {
		return fmt.Errorf("message has no usable participants")
	}

	event := &core.CommunicationEvent{
		ID:           messageID(msg, sender, timestamp),
		Timestamp:    timestamp.UTC(),
		Kind:         core.KindEmail,
		Participants: participants,
		Title:        subject,
		Body:         body,
	}

	if err := g.sink.Append(context.Background(), event); err != nil {
		return err
	}

	g.logger.Info("Captured event",
		zap.String("event_id", event.ID),
		zap.String("subject", subject),
		zap.Int("participants", len(participants)))
	return nil
}

// messageID prefers the Message-ID header and falls back to a digest of
// sender and timestamp so replayed deliveries dedupe downstream
func messageID(msg *mail.Message, sender string, ts time.Time) string {
	if id := strings.Trim(msg.Header.Get("Message-ID"), "<> "); id != "" {
		return id
	}
	sum := sha1.Sum([]byte(sender + ts.UTC().Format(time.RFC3339Nano)))
	return "smtp-" + hex.EncodeToString(sum[:8])
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	ingest *SMTPIngest
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		ingest:     b.ingest,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	ingest     *SMTPIngest
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for ingestion)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient address
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data receives the message content and hands it to capture
func (s *smtpSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read message data: %w", err)
	}

	if err := s.ingest.capture(s.sender, s.recipients, data); err != nil {
		s.ingest.logger.Error("Failed to capture message", zap.Error(err))
		return &smtp.SMTPError{
			Code:    451,
			Message: "Temporary processing failure",
		}
	}
	return nil
}

// Logout ends the session
func (s *smtpSession) Logout() error {
	return nil
}
