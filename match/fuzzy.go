package match

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// tokenSortRatio scores fuzzy similarity between two strings on a 0..100
// scale. Both strings have their words sorted before the edit-distance
// comparison, so the score tolerates word-order differences.
func tokenSortRatio(a, b string) float64 {
	a, b = sortWords(a), sortWords(b)
	if a == b {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	similarity, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(similarity) * 100
}

// overlapScore is the share of query words also present in the candidate, on
// a 0..100 scale. An empty query word set scores 0.
func overlapScore(queryWords map[string]bool, candidate string) float64 {
	if len(queryWords) == 0 {
		return 0
	}
	candidateWords := wordSet(candidate)
	shared := 0
	for word := range queryWords {
		if candidateWords[word] {
			shared++
		}
	}
	return 100 * float64(shared) / float64(len(queryWords))
}

func sortWords(text string) string {
	words := strings.Fields(text)
	sort.Strings(words)
	return strings.Join(words, " ")
}

func wordSet(text string) map[string]bool {
	words := strings.Fields(text)
	set := make(map[string]bool, len(words))
	for _, word := range words {
		set[word] = true
	}
	return set
}
