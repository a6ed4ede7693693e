// Package conversation implements the bounded message exchange between an
// item's poster and a claimant. All transitions return fresh values and
// never mutate their inputs; persistence belongs to the store.
package conversation

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/model"
)

// DefaultMaxMessages bounds the exchange. Five messages is enough to agree
// on a handover; anything longer belongs in direct contact.
const DefaultMaxMessages = 5

// Conversation error sentinels.
var (
	ErrExpired       = errors.New("conversation message limit reached")
	ErrNotResolvable = errors.New("conversation cannot be resolved yet")
	ErrEmptyMessage  = errors.New("message text is empty")
)

// New creates an active, empty conversation for an item. Conversations are
// created lazily, on the claimant's first message.
func New(itemID, claimantID string) model.Conversation {
	return model.Conversation{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		ClaimantID:  claimantID,
		Status:      model.ConversationActive,
		MaxMessages: DefaultMaxMessages,
	}
}

// SendMessage appends a message and returns the updated conversation. The
// sender role is derived from the current message count: even counts send
// as the claimant (the initiator), odd counts as the poster, so roles
// strictly alternate.
func SendMessage(conv model.Conversation, text string, now time.Time) (model.Conversation, error) {
	if !conv.Sendable() {
		return model.Conversation{}, ErrExpired
	}
	if strings.TrimSpace(text) == "" {
		return model.Conversation{}, ErrEmptyMessage
	}

	role := model.RoleClaimant
	if conv.MessageCount%2 == 1 {
		role = model.RolePoster
	}

	msg := model.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		SenderRole:     role,
		Text:           text,
		Timestamp:      now,
	}

	out := conv
	out.Messages = make([]model.Message, 0, len(conv.Messages)+1)
	out.Messages = append(out.Messages, conv.Messages...)
	out.Messages = append(out.Messages, msg)
	out.MessageCount++
	return out, nil
}

// Resolve marks the conversation resolved. It refuses conversations with
// fewer than two messages (nothing was verified yet), conversations whose
// message window has filled, and conversations already in a terminal
// state, so a second resolve always fails.
func Resolve(conv model.Conversation) (model.Conversation, error) {
	if conv.Status != model.ConversationActive || conv.MessageCount >= conv.MaxMessages {
		return model.Conversation{}, ErrNotResolvable
	}
	if conv.MessageCount <= 1 {
		return model.Conversation{}, ErrNotResolvable
	}

	out := conv
	out.Status = model.ConversationResolved
	return out, nil
}
