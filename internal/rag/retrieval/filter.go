package retrieval

import "strings"

// DomainFilter reports whether a query belongs to the contract domain.
// Queries it rejects are answered without touching any store.
type DomainFilter func(query string) bool

var nonContractIndicators = []string{
	"weather", "joke", "recipe", "cook", "food", "movie", "music", "game",
	"sports", "news", "time", "date", "math", "calculate", "translate",
	"directions", "travel", "shopping", "restaurant", "hotel", "flight",
}

var contractKeywords = []string{
	"contract", "agreement", "legal", "sla", "msa", "nda", "clause", "terms", "service level",
}

// KeywordDomainFilter rejects a query only when it mentions an off-topic
// indicator and none of the contract keywords. Matching is case-insensitive
// substring matching, so "update" matches "date".
func KeywordDomainFilter(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if containsAny(q, contractKeywords) {
		return true
	}
	return !containsAny(q, nonContractIndicators)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
