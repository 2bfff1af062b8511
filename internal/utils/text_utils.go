package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	emailPattern = regexp.MustCompile(`\S+@\S+`)
	urlPattern   = regexp.MustCompile(`https?://\S+|www\.\S+`)
	nonAlnum     = regexp.MustCompile(`[^a-z0-9\s]`)
)

// Subject-line noise that carries no topical signal
var defaultStopTerms = map[string]struct{}{
	"re": {}, "fw": {}, "fwd": {}, "meeting": {}, "call": {},
	"update": {}, "discussion": {}, "the": {}, "and": {}, "for": {},
	"with": {}, "from": {}, "this": {}, "that": {}, "our": {},
	"your": {}, "are": {}, "will": {}, "have": {}, "has": {},
	"was": {}, "were": {}, "been": {}, "about": {}, "into": {},
	"over": {}, "not": {}, "all": {}, "can": {}, "you": {},
}

// TextProcessor normalizes free text for keyword matching and topic
// extraction
type TextProcessor struct {
	logger *zap.Logger
	fold   transform.Transformer
}

// NewTextProcessor creates a new TextProcessor
func NewTextProcessor(logger *zap.Logger) *TextProcessor {
	// NFKD decomposition plus mark stripping folds accented characters
	// down to their ASCII base before tokenization
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	return &TextProcessor{
		logger: logger,
		fold:   fold,
	}
}

// Normalize lowercases text, folds diacritics, and strips addresses, URLs
// and punctuation, leaving space-separated terms.
func (tp *TextProcessor) Normalize(text string) string {
	folded, _, err := transform.String(tp.fold, text)
	if err != nil {
		// Fall back to the raw text; normalization is best-effort
		folded = text
	}
	folded = strings.ToLower(folded)
	folded = emailPattern.ReplaceAllString(folded, " ")
	folded = urlPattern.ReplaceAllString(folded, " ")
	folded = nonAlnum.ReplaceAllString(folded, " ")
	return strings.Join(strings.Fields(folded), " ")
}

// Tokenize normalizes text and splits it into content terms, dropping
// stop terms and terms shorter than three characters.
func (tp *TextProcessor) Tokenize(text string) []string {
	var terms []string
	for _, term := range strings.Fields(tp.Normalize(text)) {
		if len(term) < 3 {
			continue
		}
		if _, stop := defaultStopTerms[term]; stop {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// SanitizeUTF8 ensures the string contains only valid UTF-8 characters
func (tp *TextProcessor) SanitizeUTF8(text string) string {
	if utf8.ValidString(text) {
		return text
	}

	result := make([]rune, 0, len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			_, size := utf8.DecodeRuneInString(text[i:])
			if size == 1 {
				continue
			}
		}
		result = append(result, r)
	}

	tp.logger.Debug("Text sanitized",
		zap.Int("original_size", len(text)),
		zap.Int("sanitized_size", len(string(result))))

	return string(result)
}

// TruncateText safely truncates text to the specified maximum size and
// ensures the result is valid UTF-8
func (tp *TextProcessor) TruncateText(text string, maxSize int) string {
	if maxSize <= 0 || len(text) <= maxSize {
		return text
	}

	truncated := text[:maxSize]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}

	return truncated
}
