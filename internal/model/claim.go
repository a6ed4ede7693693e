package model

import "time"

// VerificationQuestion is an item-specific question used to test a
// claimant's knowledge of the item. Generated deterministically from the
// item and never mutated afterwards. CorrectAnswer is optional; when empty
// the answer is judged by the heuristic scorer only.
type VerificationQuestion struct {
	ID            string `json:"id"`
	Question      string `json:"question"`
	IsRequired    bool   `json:"is_required"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
}

// Quiz question types.
const (
	QuizTypeChoice = "choice"
	QuizTypeText   = "text"
)

// QuizQuestion is a lightweight multiple-choice-or-text question for the
// quick verification flow.
type QuizQuestion struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Type          string   `json:"type"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
}

// ClaimRequest records a claimant's attempt to recover an item, together
// with the heuristic validation outcome.
type ClaimRequest struct {
	ID          string     `json:"id"`
	ItemID      string     `json:"item_id"`
	ClaimantID  string     `json:"claimant_id"`
	ClaimToken  string     `json:"claim_token,omitempty"`
	Answers     []string   `json:"answers"`
	Status      string     `json:"status"`
	Score       *int       `json:"ai_validation_score,omitempty"`
	Flags       []string   `json:"ai_validation_flags,omitempty"`
	ReviewNotes string     `json:"review_notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

// Claim statuses.
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
	ClaimStatusFlagged  = "flagged"
)

// ValidClaimStatus reports whether status is a known claim status.
func ValidClaimStatus(status string) bool {
	switch status {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected, ClaimStatusFlagged:
		return true
	}
	return false
}
