package collector

import (
	"testing"

	"gold-trading-assistant/internal/types"
)

func TestRelevanceScoreTiers(t *testing.T) {
	cases := []struct {
		name  string
		title string
		desc  string
		want  int
	}{
		{"gold plus dollar", "Gold rallies as dollar dips", "", 10},
		{"gold only", "Spot gold steady", "quiet session", 8},
		{"fed only", "Powell signals patience on rates", "", 4},
		{"forex only", "Dollar index slips", "", 2},
		{"all tiers", "Gold jumps as Fed cut bets lift bullion demand", "dollar weakness", 14},
		{"irrelevant", "Tech stocks rally on earnings", "", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RelevanceScore(types.NewsArticle{Title: tc.title, Description: tc.desc})
			if got != tc.want {
				t.Errorf("RelevanceScore(%q) = %d, want %d", tc.title, got, tc.want)
			}
		})
	}
}

func TestRelevanceScoreCapped(t *testing.T) {
	a := types.NewsArticle{
		Title:       "Gold XAUUSD gold price gold futures",
		Description: "federal reserve fed rate inflation cpi dollar usd forex bullion",
	}
	if got := RelevanceScore(a); got > maxRelevanceScore {
		t.Errorf("Score %d exceeds cap %d", got, maxRelevanceScore)
	}
}

func TestRankArticlesDeduplicates(t *testing.T) {
	articles := []types.NewsArticle{
		{Title: "Gold price climbs as dollar weakens across global markets today", Source: "A"},
		{Title: "GOLD PRICE CLIMBS AS DOLLAR WEAKENS ACROSS GLOBAL MARKETS today extra", Source: "B"},
		{Title: "Fed rate decision looms", Source: "C"},
	}

	ranked := rankArticles(articles, 25)
	if len(ranked) != 2 {
		t.Fatalf("Expected 2 unique articles, got %d", len(ranked))
	}
	// The first occurrence wins.
	for _, a := range ranked {
		if a.Source == "B" {
			t.Error("Duplicate title from source B should have been dropped")
		}
	}
}

func TestRankArticlesSortsByRelevance(t *testing.T) {
	articles := []types.NewsArticle{
		{Title: "Tech stocks rally"},
		{Title: "Gold surges on Fed cut bets"},
		{Title: "Dollar weakens"},
	}

	ranked := rankArticles(articles, 25)
	for i := 1; i < len(ranked); i++ {
		if ranked[i].RelevanceScore > ranked[i-1].RelevanceScore {
			t.Errorf("Articles not sorted: %d after %d", ranked[i].RelevanceScore, ranked[i-1].RelevanceScore)
		}
	}
	if ranked[0].Title != "Gold surges on Fed cut bets" {
		t.Errorf("Expected gold headline first, got %q", ranked[0].Title)
	}
}

func TestRankArticlesKeepLimit(t *testing.T) {
	var articles []types.NewsArticle
	for i := 0; i < 40; i++ {
		articles = append(articles, types.NewsArticle{Title: "Gold headline number " + string(rune('a'+i))})
	}
	ranked := rankArticles(articles, 25)
	if len(ranked) != 25 {
		t.Errorf("Expected 25 articles, got %d", len(ranked))
	}
}

func TestRankArticlesSkipsEmptyTitles(t *testing.T) {
	articles := []types.NewsArticle{{Title: ""}, {Title: "Gold steady"}}
	ranked := rankArticles(articles, 25)
	if len(ranked) != 1 {
		t.Errorf("Expected 1 article, got %d", len(ranked))
	}
}
