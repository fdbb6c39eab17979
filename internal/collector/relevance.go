package collector

import (
	"sort"
	"strings"

	"gold-trading-assistant/internal/types"
)

// Three keyword tiers decide how relevant a headline is to gold
// trading. Each tier scores at most once; the total is capped at 15.
var (
	tier1Keywords = []string{"gold", "xauusd", "xau/usd", "gold price", "gold futures"}
	tier2Keywords = []string{"federal reserve", "fed rate", "fed cut", "fed hike",
		"powell", "inflation", "cpi", "treasury yield"}
	tier3Keywords = []string{"dollar", "usd", "forex", "currency", "bullion"}
)

const (
	maxRelevanceScore  = 15
	highRelevanceFloor = 5
)

// RelevanceScore rates how relevant an article is to XAUUSD trading.
func RelevanceScore(a types.NewsArticle) int {
	combined := strings.ToLower(a.Title + " " + a.Description)

	score := 0
	for _, kw := range tier1Keywords {
		if strings.Contains(combined, kw) {
			score += 8
			break
		}
	}
	if containsAny(combined, tier2Keywords) {
		score += 4
	}
	if containsAny(combined, tier3Keywords) {
		score += 2
	}
	if score > maxRelevanceScore {
		score = maxRelevanceScore
	}
	return score
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// rankArticles deduplicates by title prefix, scores every survivor, and
// returns the top keep articles ordered by descending relevance.
func rankArticles(articles []types.NewsArticle, keep int) []types.NewsArticle {
	seen := map[string]bool{}
	unique := make([]types.NewsArticle, 0, len(articles))
	for _, a := range articles {
		key := strings.ToLower(a.Title)
		if len(key) > 50 {
			key = key[:50]
		}
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		a.RelevanceScore = RelevanceScore(a)
		unique = append(unique, a)
	}

	sort.SliceStable(unique, func(i, j int) bool {
		return unique[i].RelevanceScore > unique[j].RelevanceScore
	})

	if len(unique) > keep {
		unique = unique[:keep]
	}
	return unique
}
