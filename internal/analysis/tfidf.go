package analysis

import (
	"math"
	"sort"

	"github.com/meridian/chronolens/internal/utils"
)

// tfidfScorer ranks terms per document with term-frequency ×
// inverse-document-frequency over a small corpus of window documents.
// The math is written out explicitly so results are reproducible: tf is
// the term count normalized by document length, idf is
// ln((1+N)/(1+df)) + 1.
type tfidfScorer struct {
	tp   *utils.TextProcessor
	docs [][]string
	df   map[string]int
}

// newTFIDFScorer tokenizes the documents and builds document frequencies.
// Empty documents stay in the corpus so indices line up with the caller's
// windows; they simply yield no terms.
func newTFIDFScorer(tp *utils.TextProcessor, documents []string) *tfidfScorer {
	s := &tfidfScorer{
		tp: tp,
		df: make(map[string]int),
	}
	for _, doc := range documents {
		terms := tp.Tokenize(doc)
		s.docs = append(s.docs, terms)

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			s.df[t]++
		}
	}
	return s
}

// topTerms returns the k highest-scoring terms of document i, ordered by
// descending score with alphabetical tie-breaking so output is
// deterministic.
func (s *tfidfScorer) topTerms(i, k int) []string {
	if i < 0 || i >= len(s.docs) || k <= 0 {
		return nil
	}
	terms := s.docs[i]
	if len(terms) == 0 {
		return nil
	}

	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}

	n := float64(len(s.docs))
	type scored struct {
		term  string
		score float64
	}
	ranked := make([]scored, 0, len(counts))
	for term, count := range counts {
		tf := float64(count) / float64(len(terms))
		idf := math.Log((1+n)/(1+float64(s.df[term]))) + 1
		ranked = append(ranked, scored{term: term, score: tf * idf})
	}

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].score != ranked[b].score {
			return ranked[a].score > ranked[b].score
		}
		return ranked[a].term < ranked[b].term
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	top := make([]string, k)
	for j := 0; j < k; j++ {
		top[j] = ranked[j].term
	}
	return top
}
