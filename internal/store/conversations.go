package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/najdeno/internal/model"
)

// ErrConversationClosed is returned when an append loses the race for the
// last message slot, or the conversation is no longer active.
var ErrConversationClosed = errors.New("conversation closed")

// CreateConversation opens the message window for an item and claimant.
// Each item has at most one conversation; creating a second returns an error
// from the unique index.
func CreateConversation(ctx context.Context, db *sql.DB, conv model.Conversation) (*model.Conversation, error) {
	if conv.ID == "" {
		conv.ID = uuid.NewString()
	}
	if conv.MaxMessages <= 0 {
		return nil, fmt.Errorf("invalid message window: %d", conv.MaxMessages)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO conversations (id, item_id, claimant_id, status, message_count, max_messages)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		conv.ID, conv.ItemID, conv.ClaimantID, conv.Status, conv.MessageCount, conv.MaxMessages,
	)
	if err != nil {
		return nil, fmt.Errorf("creating conversation: %w", err)
	}

	return GetConversation(ctx, db, conv.ID)
}

// GetConversation returns a conversation with its messages in send order.
func GetConversation(ctx context.Context, db *sql.DB, id string) (*model.Conversation, error) {
	conv := &model.Conversation{}
	err := db.QueryRowContext(ctx,
		`SELECT id, item_id, claimant_id, status, message_count, max_messages
		 FROM conversations WHERE id = ?`, id,
	).Scan(&conv.ID, &conv.ItemID, &conv.ClaimantID, &conv.Status, &conv.MessageCount, &conv.MaxMessages)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation: %w", err)
	}

	if err := loadMessages(ctx, db, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// GetConversationByItem returns the conversation attached to an item, if any.
func GetConversationByItem(ctx context.Context, db *sql.DB, itemID string) (*model.Conversation, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM conversations WHERE item_id = ?`, itemID,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting conversation by item: %w", err)
	}
	return GetConversation(ctx, db, id)
}

// AppendMessage persists a message and advances the conversation counter in
// one transaction. The count bump is conditional on the conversation being
// active with a free slot, so two appends racing for the last slot cannot
// both land; the loser gets ErrConversationClosed. When the window fills,
// the conversation is marked expired so later reads see the terminal state
// without recomputing it.
func AppendMessage(ctx context.Context, db *sql.DB, conversationID string, msg model.Message) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE conversations SET message_count = message_count + 1
		 WHERE id = ? AND status = 'active' AND message_count < max_messages`,
		conversationID,
	)
	if err != nil {
		return fmt.Errorf("advancing message count: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("advancing message count: %w", err)
	}
	if n == 0 {
		return ErrConversationClosed
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (id, conversation_id, sender_role, text, timestamp)
		 VALUES (?, ?, ?, ?, ?)`,
		msg.ID, conversationID, msg.SenderRole, msg.Text, msg.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting message: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE conversations SET status = 'expired'
		 WHERE id = ? AND status = 'active' AND message_count >= max_messages`,
		conversationID,
	)
	if err != nil {
		return fmt.Errorf("expiring conversation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing message: %w", err)
	}
	return nil
}

// ResolveConversation flips an active conversation to resolved. Returns
// false if the conversation was not active, so concurrent resolves cannot
// both win.
func ResolveConversation(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE conversations SET status = 'resolved'
		 WHERE id = ? AND status = 'active'`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("resolving conversation: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("resolving conversation: %w", err)
	}
	return n > 0, nil
}

func loadMessages(ctx context.Context, db *sql.DB, conv *model.Conversation) error {
	rows, err := db.QueryContext(ctx,
		`SELECT id, conversation_id, sender_role, text, timestamp
		 FROM messages WHERE conversation_id = ? ORDER BY timestamp, id`, conv.ID,
	)
	if err != nil {
		return fmt.Errorf("loading messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderRole, &msg.Text, &msg.Timestamp); err != nil {
			return fmt.Errorf("scanning message: %w", err)
		}
		conv.Messages = append(conv.Messages, msg)
	}
	return rows.Err()
}
