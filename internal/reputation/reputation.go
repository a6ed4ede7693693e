// Package reputation derives user reputation scores from claim history.
package reputation

// Formula weights. Failed claims cost more than successful ones earn, so
// serial false claimants sink quickly.
const (
	baseScore      = 50
	successBonus   = 10
	failurePenalty = 15
	returnBonus    = 5
)

// Score derives a reputation score in [0, 100] from a user's claim
// history. Monotonically non-decreasing in successes and returns,
// non-increasing in failures.
func Score(successfulClaims, failedClaims, itemsReturned int) int {
	score := baseScore +
		successBonus*successfulClaims -
		failurePenalty*failedClaims +
		returnBonus*itemsReturned

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Display levels, from highest band down.
const (
	LevelHero   = "Hero"
	LevelExpert = "Expert"
	LevelHelper = "Helper"
	LevelFinder = "Finder"
	LevelNewbie = "Newbie"
)

// Level returns the display band for a score. Levels are derived for
// presentation and never stored.
func Level(score int) string {
	switch {
	case score >= 100:
		return LevelHero
	case score >= 50:
		return LevelExpert
	case score >= 20:
		return LevelHelper
	case score >= 5:
		return LevelFinder
	default:
		return LevelNewbie
	}
}
