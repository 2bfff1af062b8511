package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTFIDF_DistinctiveTermsRankHigher(t *testing.T) {
	scorer := newTFIDFScorer(testTP, []string{
		"budget budget budget review",
		"design design design review",
	})

	top := scorer.topTerms(0, 2)
	require.NotEmpty(t, top)
	// "budget" is frequent and unique to document 0; "review" appears
	// everywhere and scores lower
	assert.Equal(t, "budget", top[0])
}

func TestTFIDF_EmptyDocumentKeepsIndex(t *testing.T) {
	scorer := newTFIDFScorer(testTP, []string{
		"budget review",
		"",
		"design review",
	})

	assert.Nil(t, scorer.topTerms(1, 5))
	assert.NotEmpty(t, scorer.topTerms(0, 5))
	assert.NotEmpty(t, scorer.topTerms(2, 5))
}

func TestTFIDF_AlphabeticalTieBreak(t *testing.T) {
	scorer := newTFIDFScorer(testTP, []string{"zebra apple zebra apple"})

	top := scorer.topTerms(0, 2)
	require.Len(t, top, 2)
	assert.Equal(t, []string{"apple", "zebra"}, top)
}

func TestTFIDF_OutOfRange(t *testing.T) {
	scorer := newTFIDFScorer(testTP, []string{"budget review"})

	assert.Nil(t, scorer.topTerms(-1, 3))
	assert.Nil(t, scorer.topTerms(5, 3))
	assert.Nil(t, scorer.topTerms(0, 0))
}

func TestTFIDF_StopTermsExcluded(t *testing.T) {
	scorer := newTFIDFScorer(testTP, []string{"re fwd meeting budget update"})

	top := scorer.topTerms(0, 5)
	assert.Equal(t, []string{"budget"}, top)
}
