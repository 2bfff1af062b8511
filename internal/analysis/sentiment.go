package analysis

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/meridian/chronolens/internal/core"
	"github.com/meridian/chronolens/internal/utils"
)

// SentimentConfig carries the lexicon sentiment analyzer parameters.
// Scoring is pure term counting; there is no language understanding
// beyond lexicon membership.
type SentimentConfig struct {
	PositiveLexicon   []string
	NegativeLexicon   []string
	PositiveThreshold float64
	NegativeThreshold float64
}

// DefaultSentimentConfig returns the built-in lexicons and the 0.6/0.4
// label thresholds
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		PositiveLexicon: []string{
			"great", "excellent", "fantastic", "wonderful", "perfect",
			"thank", "thanks", "appreciate", "grateful", "pleased",
			"happy", "excited", "approved", "confirmed", "successful",
			"completed", "achieved", "congratulations", "impressive",
			"outstanding",
		},
		NegativeLexicon: []string{
			"issue", "problem", "concern", "worry", "unfortunately",
			"delay", "late", "missed", "failed", "error", "mistake",
			"confused", "unclear", "difficulty", "trouble", "stuck",
			"blocked", "frustrated", "disappointed", "wrong", "sorry",
			"regret",
		},
		PositiveThreshold: 0.6,
		NegativeThreshold: 0.4,
	}
}

// Validate rejects out-of-range parameters at construction time
func (c SentimentConfig) Validate() error {
	if len(c.PositiveLexicon) == 0 || len(c.NegativeLexicon) == 0 {
		return fmt.Errorf("sentiment lexicons must not be empty")
	}
	if c.NegativeThreshold < 0 || c.PositiveThreshold > 1 || c.NegativeThreshold > c.PositiveThreshold {
		return fmt.Errorf("sentiment thresholds must satisfy 0 <= negative <= positive <= 1")
	}
	return nil
}

// SentimentScanner scores per-event tone by counting lexicon matches in
// title and body
type SentimentScanner struct {
	cfg      SentimentConfig
	tp       *utils.TextProcessor
	logger   *zap.Logger
	positive []string
	negative []string
}

// NewSentimentScanner creates a sentiment analyzer, validating its
// configuration
func NewSentimentScanner(cfg SentimentConfig, tp *utils.TextProcessor, logger *zap.Logger) (*SentimentScanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &SentimentScanner{cfg: cfg, tp: tp, logger: logger}
	for _, term := range cfg.PositiveLexicon {
		s.positive = append(s.positive, tp.Normalize(term))
	}
	for _, term := range cfg.NegativeLexicon {
		s.negative = append(s.negative, tp.Normalize(term))
	}
	return s, nil
}

// AnalyzeSentiment emits one record per event. The score is the positive
// share of all lexicon hits; an event with no hits scores the neutral
// 0.5.
func (s *SentimentScanner) AnalyzeSentiment(ctx context.Context, t *core.Timeline) ([]core.SentimentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]core.SentimentRecord, 0, t.Len())
	for _, e := range t.Events() {
		text := s.tp.Normalize(e.Title + " " + e.Body)
		positiveHits := len(matchLexicon(text, s.positive))
		negativeHits := len(matchLexicon(text, s.negative))

		score := 0.5
		if positiveHits+negativeHits > 0 {
			score = float64(positiveHits) / float64(positiveHits+negativeHits)
		}

		label := core.SentimentNeutral
		if score > s.cfg.PositiveThreshold {
			label = core.SentimentPositive
		} else if score < s.cfg.NegativeThreshold {
			label = core.SentimentNegative
		}

		records = append(records, core.SentimentRecord{
			EventID:      e.ID,
			Date:         e.Timestamp,
			Label:        label,
			Score:        score,
			PositiveHits: positiveHits,
			NegativeHits: negativeHits,
		})
	}

	s.logger.Info("Sentiment analysis complete", zap.Int("events", len(records)))
	return records, nil
}
