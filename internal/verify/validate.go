package verify

import (
	"fmt"
	"strings"
	"time"

	"github.com/erazemk/najdeno/internal/model"
)

// Result is the outcome of scoring a claimant's answers. A low score is a
// normal outcome, not an error: invalid claims are routed to manual review.
type Result struct {
	Score   int      `json:"score"`
	Flags   []string `json:"flags"`
	IsValid bool     `json:"is_valid"`
}

// AnswerScorer scores free-text claim answers against an item. Heuristic
// is the built-in rule-based implementation; a model-backed service can be
// substituted behind the same contract without changing callers.
type AnswerScorer interface {
	ScoreAnswers(item model.Item, answers []string, now time.Time) Result
}

// Heuristic is the rule-based AnswerScorer.
type Heuristic struct{}

// ScoreAnswers implements AnswerScorer.
func (Heuristic) ScoreAnswers(item model.Item, answers []string, now time.Time) Result {
	return ScoreAnswers(item, answers, now)
}

// Scoring thresholds.
const (
	minAnswerLength = 3
	validMinScore   = 60
	maxFlagsValid   = 3
	staleDateDays   = 7
)

// uncertainPhrases mark answers that hedge instead of demonstrating
// knowledge of the item.
var uncertainPhrases = []string{"i dont know", "not sure", "maybe", "idk", "dunno"}

// timeWords trigger the consistency check between the answer's time
// reference and the item's reported date.
var timeWords = []string{"today", "yesterday", "morning", "afternoon", "evening"}

// ScoreAnswers grades a claimant's answers against the item, starting from
// a perfect score and deducting per suspicious signal. Pure given its
// inputs; now is explicit so results are reproducible.
func ScoreAnswers(item model.Item, answers []string, now time.Time) Result {
	score := 100
	var flags []string

	keywords := itemKeywords(item)

	for i, answer := range answers {
		if i >= len(item.VerificationQuestions) {
			break
		}
		question := item.VerificationQuestions[i]
		lower := strings.ToLower(answer)

		if len(answer) < minAnswerLength {
			score -= 20
			flags = append(flags, fmt.Sprintf("Answer %d too short", i+1))
		}

		for _, phrase := range uncertainPhrases {
			if strings.Contains(lower, phrase) {
				score -= 15
				flags = append(flags, fmt.Sprintf("Answer %d appears uncertain", i+1))
				break
			}
		}

		if question.CorrectAnswer != "" && !mentionsItem(lower, keywords) {
			score -= 10
			flags = append(flags, fmt.Sprintf("Answer %d may not match item details", i+1))
		}
	}

	// An answer that talks about the location must actually name it.
	if item.Location != "" && anyContains(answers, "location", "where") &&
		!anyContains(answers, strings.ToLower(item.Location)) {
		score -= 25
		flags = append(flags, "Location details inconsistent")
	}

	// Relative time references only make sense for recent items.
	if anyContains(answers, timeWords...) {
		age := now.Sub(item.Date)
		if age < 0 {
			age = -age
		}
		if age > staleDateDays*24*time.Hour {
			score -= 15
			flags = append(flags, "Time reference may be inconsistent with item date")
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return Result{
		Score:   score,
		Flags:   flags,
		IsValid: score >= validMinScore && len(flags) < maxFlagsValid,
	}
}

// itemKeywords collects the item's identifying terms, lowercased.
func itemKeywords(item model.Item) []string {
	keywords := make([]string, 0, 4+len(item.Tags))
	for _, k := range []string{item.Title, item.Category, item.Color, item.Location} {
		if k != "" {
			keywords = append(keywords, strings.ToLower(k))
		}
	}
	for _, tag := range item.Tags {
		keywords = append(keywords, strings.ToLower(tag))
	}
	return keywords
}

// mentionsItem reports whether any answer word overlaps an item keyword.
// Containment is checked in both directions, which is deliberately loose
// on short words; tightening it would change accepted claims.
func mentionsItem(lowerAnswer string, keywords []string) bool {
	for _, word := range strings.Fields(lowerAnswer) {
		for _, keyword := range keywords {
			if strings.Contains(word, keyword) || strings.Contains(keyword, word) {
				return true
			}
		}
	}
	return false
}

// anyContains reports whether any answer contains any of the needles,
// case-insensitively.
func anyContains(answers []string, needles ...string) bool {
	for _, answer := range answers {
		lower := strings.ToLower(answer)
		for _, needle := range needles {
			if strings.Contains(lower, needle) {
				return true
			}
		}
	}
	return false
}
