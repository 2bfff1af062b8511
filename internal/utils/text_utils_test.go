package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNormalize(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Budget REVIEW", "budget review"},
		{"strips addresses", "ping alice@example.com about budget", "ping about budget"},
		{"strips urls", "see https://example.com/doc and www.example.com now", "see and now"},
		{"strips punctuation", "re: budget, (final!) review?", "re budget final review"},
		{"folds diacritics", "café résumé", "cafe resume"},
		{"collapses whitespace", "  a \t b\n c  ", "a b c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tp.Normalize(tt.in))
		})
	}
}

func TestTokenize(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"drops short terms", "go to qa hq budget", []string{"budget"}},
		{"drops stop terms", "re fwd meeting call budget update", []string{"budget"}},
		{"keeps content terms", "database schema migration", []string{"database", "schema", "migration"}},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tp.Tokenize(tt.in))
		})
	}
}

func TestTruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "abc", tp.TruncateText("abc", 10))
	assert.Equal(t, "ab", tp.TruncateText("abcdef", 2))
	assert.Equal(t, "abcdef", tp.TruncateText("abcdef", 0))

	// Never cut multi-byte runes in half
	truncated := tp.TruncateText("héllo", 2)
	assert.Equal(t, "h", truncated)
}

func TestSanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "clean", tp.SanitizeUTF8("clean"))
	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
}
