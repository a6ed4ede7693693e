package model

import "time"

// Conversation is a bounded message exchange between the item's poster and
// a claimant, used to verify a claim manually. MessageCount always equals
// len(Messages) and never exceeds MaxMessages; Status only moves forward
// (active to resolved, or active to expired).
type Conversation struct {
	ID           string    `json:"id"`
	ItemID       string    `json:"item_id"`
	ClaimantID   string    `json:"claimant_id"`
	Messages     []Message `json:"messages"`
	Status       string    `json:"status"`
	MessageCount int       `json:"message_count"`
	MaxMessages  int       `json:"max_messages"`
}

// Conversation statuses.
const (
	ConversationActive   = "active"
	ConversationResolved = "resolved"
	ConversationExpired  = "expired"
)

// Sender roles. Roles alternate strictly, starting with the claimant, who
// initiates the conversation.
const (
	RolePoster   = "poster"
	RoleClaimant = "claimant"
)

// Message is a single entry in a conversation.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderRole     string    `json:"sender_role"`
	Text           string    `json:"text"`
	Timestamp      time.Time `json:"timestamp"`
}

// Sendable reports whether the conversation can still accept a message.
// A full window counts as expired even before the store flips the status.
func (c Conversation) Sendable() bool {
	return c.Status == ConversationActive && c.MessageCount < c.MaxMessages
}
