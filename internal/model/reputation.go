package model

// ReputationRecord aggregates a user's claim history. Score is derived,
// never stored; see the reputation package.
type ReputationRecord struct {
	UserID           string `json:"user_id"`
	SuccessfulClaims int    `json:"successful_claims"`
	FailedClaims     int    `json:"failed_claims"`
	ItemsReturned    int    `json:"items_returned"`
	ItemsFound       int    `json:"items_found"`
	Score            int    `json:"score"`
	Level            string `json:"level,omitempty"`
}
