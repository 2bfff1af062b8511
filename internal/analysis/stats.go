package analysis

import (
	"sort"
)

// Gini computes the Gini coefficient of a count distribution: 0 for a
// perfectly even distribution, approaching 1 for a maximally uneven one.
// Empty input and a zero total both resolve to 0.
func Gini(values []int) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)

	n := len(sorted)
	total := 0
	cumsum := 0
	for i, v := range sorted {
		total += v
		cumsum += (i + 1) * v
	}
	if total == 0 {
		return 0
	}

	g := (2*float64(cumsum))/(float64(n)*float64(total)) - float64(n+1)/float64(n)
	if g < 0 {
		return 0
	}
	return g
}

// Jaccard computes |A∩B| / |A∪B| between two term sets. Two empty sets
// resolve to 0 rather than dividing by zero.
func Jaccard(a, b []string) float64 {
	setA := make(map[string]struct{}, len(a))
	for _, t := range a {
		setA[t] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, t := range b {
		setB[t] = struct{}{}
	}

	intersection := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// clip bounds a score to [0,1]
func clip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// sortedKeys returns the keys of a string set in sorted order for
// deterministic output, nil for an empty set
func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
