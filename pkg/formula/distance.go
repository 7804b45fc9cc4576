package formula

import (
	"sort"
	"strings"
)

// Levenshtein calculates the edit distance between two strings: the minimum
// number of single-character insertions, deletions, or substitutions needed
// to turn one into the other.
func Levenshtein(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	// Two-row DP matrix
	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(s2)]
}

// Similarity returns a normalized similarity score in [0,1]: 1 for equal
// strings, 0 for completely different ones. Comparison is case-insensitive.
func Similarity(s1, s2 string) float64 {
	a := strings.ToLower(s1)
	b := strings.ToLower(s2)
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// RankSimilar returns the candidates whose similarity to input exceeds
// threshold, best first, capped at limit. Ties keep candidate order.
func RankSimilar(input string, candidates []string, threshold float64, limit int) []string {
	type scored struct {
		name  string
		score float64
	}

	var matches []scored
	for _, c := range candidates {
		if s := Similarity(input, c); s > threshold {
			matches = append(matches, scored{name: c, score: s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	result := make([]string, len(matches))
	for i, m := range matches {
		result[i] = m.name
	}
	return result
}
