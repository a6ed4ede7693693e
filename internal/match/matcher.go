// Package match scores opposite-kind item pairs and proposes ranked
// candidate matches. All functions are pure over their inputs.
package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/erazemk/najdeno/internal/model"
)

// Scoring weights and thresholds. The confidence cap exists because the
// heuristic can never prove two reports describe the same object.
const (
	weightCategory    = 40
	weightColor       = 25
	weightLocation    = 20
	weightDateClose   = 15 // within 1 day
	weightDateNear    = 10 // within 3 days
	weightPerTag      = 5
	weightPerKeyword  = 3
	MinConfidence     = 30
	MaxConfidence     = 95
	minKeywordLength  = 4
)

// Suggestions scores every opposite-kind active candidate in pool against
// target and returns suggestions with confidence of at least MinConfidence,
// sorted by confidence descending. Ties keep the pool's original order.
func Suggestions(target model.Item, pool []model.Item) []model.MatchSuggestion {
	var out []model.MatchSuggestion
	for _, cand := range pool {
		if cand.ID == target.ID || cand.Kind == target.Kind || cand.Status != model.ItemStatusActive {
			continue
		}

		score, reasons := scorePair(target, cand)
		if score < MinConfidence {
			continue
		}

		out = append(out, model.MatchSuggestion{
			SourceItemID:    target.ID,
			CandidateItemID: cand.ID,
			Confidence:      min(score, MaxConfidence),
			Reasons:         reasons,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// scorePair computes the additive raw score for one candidate, collecting a
// reason per satisfied signal in a fixed order.
func scorePair(target, cand model.Item) (int, []string) {
	score := 0
	var reasons []string

	if target.Category == cand.Category {
		score += weightCategory
		reasons = append(reasons, fmt.Sprintf("Same category: %s", target.Category))
	}

	if target.Color != "" && cand.Color != "" && target.Color == cand.Color {
		score += weightColor
		reasons = append(reasons, fmt.Sprintf("Same color: %s", target.Color))
	}

	if target.Location == cand.Location {
		score += weightLocation
		reasons = append(reasons, fmt.Sprintf("Same location: %s", target.Location))
	}

	daysApart := math.Abs(target.Date.Sub(cand.Date).Hours() / 24)
	if daysApart <= 1 {
		score += weightDateClose
		reasons = append(reasons, "Posted within 1 day")
	} else if daysApart <= 3 {
		score += weightDateNear
		reasons = append(reasons, "Posted within 3 days")
	}

	if shared := sharedTags(target.Tags, cand.Tags); len(shared) > 0 {
		score += len(shared) * weightPerTag
		reasons = append(reasons, fmt.Sprintf("Common tags: %s", strings.Join(shared, ", ")))
	}

	if n := sharedKeywords(target.Description, cand.Description); n > 0 {
		score += n * weightPerKeyword
		reasons = append(reasons, "Similar description keywords")
	}

	return score, reasons
}

// sharedTags returns the case-sensitive set intersection of two tag lists,
// preserving the order of first appearance in a.
func sharedTags(a, b []string) []string {
	inB := make(map[string]bool, len(b))
	for _, tag := range b {
		inB[tag] = true
	}

	var shared []string
	seen := make(map[string]bool)
	for _, tag := range a {
		if inB[tag] && !seen[tag] {
			shared = append(shared, tag)
			seen[tag] = true
		}
	}
	return shared
}

// sharedKeywords counts distinct words longer than three characters that
// appear in both descriptions. Comparison is case-insensitive over
// whitespace-split words.
func sharedKeywords(a, b string) int {
	inB := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(b)) {
		inB[word] = true
	}

	count := 0
	seen := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(a)) {
		if len(word) < minKeywordLength || seen[word] {
			continue
		}
		seen[word] = true
		if inB[word] {
			count++
		}
	}
	return count
}
