package personalization

import (
	"recipe-ai-backend/domain"
	"sort"
	"strings"
)

const (
	topCuisines     = 5
	topIngredients  = 10
	topDifficulties = 3

	scoreBase       = 1.0
	scoreCuisine    = 2.0
	scoreDifficulty = 1.0
	scoreTrending   = 1.5
)

var trendingWeights = map[string]int{
	domain.EventFavorited: 3,
	domain.EventGenerated: 2,
	domain.EventViewed:    1,
}

// TrendingScore is the aggregate event weight of one recipe.
type TrendingScore struct {
	RecipeID string
	Score    int
}

// counter ranks keys by count; equal counts keep first-seen order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(key string, n int) {
	if key == "" {
		return
	}
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key] += n
}

func (c *counter) mostCommon(n int) []string {
	keys := append([]string(nil), c.order...)
	sort.SliceStable(keys, func(i, j int) bool { return c.counts[keys[i]] > c.counts[keys[j]] })
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

// Summarize folds behavior events into the user's preference summary.
func Summarize(events []domain.BehaviorEvent) domain.UserBehaviorSummary {
	cuisines, ingredients, difficulties := newCounter(), newCounter(), newCounter()

	for _, e := range events {
		if e.EventData == nil {
			continue
		}
		cuisines.add(stringField(e.EventData, "cuisine"), 1)
		difficulties.add(stringField(e.EventData, "difficulty"), 1)
		switch list := e.EventData["ingredients"].(type) {
		case []any:
			for _, ing := range list {
				if s, ok := ing.(string); ok {
					ingredients.add(strings.ToLower(s), 1)
				}
			}
		case []string:
			for _, ing := range list {
				ingredients.add(strings.ToLower(ing), 1)
			}
		}
	}

	return domain.UserBehaviorSummary{
		FavoriteCuisines:      cuisines.mostCommon(topCuisines),
		FrequentIngredients:   ingredients.mostCommon(topIngredients),
		PreferredDifficulties: difficulties.mostCommon(topDifficulties),
		TotalActivities:       len(events),
	}
}

func stringField(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

// ScoreCandidate scores a recipe against the summary for the given
// recommendation type.
func ScoreCandidate(recipe domain.Recipe, recommendationType string, summary domain.UserBehaviorSummary) float64 {
	score := scoreBase
	if contains(summary.FavoriteCuisines, recipe.Cuisine) {
		score += scoreCuisine
	}
	if contains(summary.PreferredDifficulties, recipe.Difficulty) {
		score += scoreDifficulty
	}
	if recommendationType == domain.RecommendationTrending {
		score += scoreTrending
	}
	return score
}

func contains(list []string, s string) bool {
	if s == "" {
		return false
	}
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Dedupe keeps the first candidate for each recipe id.
func Dedupe(candidates []domain.RecommendationCandidate) []domain.RecommendationCandidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]domain.RecommendationCandidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.Recipe.ID]; ok {
			continue
		}
		seen[c.Recipe.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// Rank scores every candidate, then sorts descending and truncates to limit.
func Rank(candidates []domain.RecommendationCandidate, summary domain.UserBehaviorSummary, limit int) []domain.RecommendationCandidate {
	out := Dedupe(candidates)
	for i := range out {
		out[i].RecommendationScore = ScoreCandidate(out[i].Recipe, out[i].RecommendationType, summary)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecommendationScore > out[j].RecommendationScore })
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RankTrending sums weighted events per recipe. Ties keep the order in which
// recipes first appear in events.
func RankTrending(events []domain.BehaviorEvent, limit int) []TrendingScore {
	c := newCounter()
	for _, e := range events {
		w, ok := trendingWeights[e.EventType]
		if !ok {
			continue
		}
		c.add(stringField(e.EventData, "recipe_id"), w)
	}

	ids := c.mostCommon(limit)
	out := make([]TrendingScore, len(ids))
	for i, id := range ids {
		out[i] = TrendingScore{RecipeID: id, Score: c.counts[id]}
	}
	return out
}
