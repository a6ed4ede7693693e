package model

import "time"

// Item represents a lost or found report. Everything except Status and the
// claim token fields is immutable after posting; those are updated by the
// store, never by the matching or validation code.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Kind         string    `json:"kind"`
	Category     string    `json:"category"`
	Color        string    `json:"color,omitempty"`
	Location     string    `json:"location"`
	Date         time.Time `json:"date"`
	Tags         []string  `json:"tags,omitempty"`
	Status       string    `json:"status"`
	PosterID     string    `json:"poster_id,omitempty"`
	ContactInfo  string    `json:"contact_info,omitempty"`
	ImageMime    string    `json:"image_mime,omitempty"`
	ImageBlurred bool      `json:"image_blurred,omitempty"`
	RenewCount   int       `json:"renew_count,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	ExpiresAt    time.Time `json:"expires_at"`

	ClaimToken       string     `json:"claim_token,omitempty"`
	ClaimTokenExpiry *time.Time `json:"claim_token_expiry,omitempty"`

	VerificationQuestions []VerificationQuestion `json:"verification_questions,omitempty"`
}

// Item kinds.
const (
	KindLost  = "lost"
	KindFound = "found"
)

// Item statuses.
const (
	ItemStatusActive   = "active"
	ItemStatusClaimed  = "claimed"
	ItemStatusArchived = "archived"
)

// ValidKind reports whether kind is a known item kind.
func ValidKind(kind string) bool {
	return kind == KindLost || kind == KindFound
}

// ValidItemStatus reports whether status is a known item status.
func ValidItemStatus(status string) bool {
	return status == ItemStatusActive || status == ItemStatusClaimed || status == ItemStatusArchived
}

// MatchSuggestion is a ranked candidate pairing between a lost and a found
// item. Produced fresh per query, never persisted.
type MatchSuggestion struct {
	SourceItemID    string   `json:"source_item_id"`
	CandidateItemID string   `json:"candidate_item_id"`
	Confidence      int      `json:"confidence"`
	Reasons         []string `json:"reasons"`
}
