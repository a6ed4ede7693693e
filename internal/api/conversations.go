package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/conversation"
	"github.com/erazemk/najdeno/internal/store"
)

// ConversationsHandler serves the bounded message exchange between posters
// and claimants.
type ConversationsHandler struct {
	DB  *sql.DB
	Now func() time.Time
}

type sendMessageRequest struct {
	ClaimantID string `json:"claimant_id"`
	Text       string `json:"text"`
}

// SendMessage handles POST /api/items/{id}/messages. The conversation is
// created lazily on the first message.
func (h *ConversationsHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	item, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := store.GetConversationByItem(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	if conv == nil {
		if req.ClaimantID == "" {
			jsonError(w, http.StatusBadRequest, "claimant_id required to open a conversation")
			return
		}
		conv, err = store.CreateConversation(r.Context(), h.DB, conversation.New(id, req.ClaimantID))
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to create conversation")
			return
		}
	}

	updated, err := conversation.SendMessage(*conv, req.Text, h.Now())
	switch {
	case errors.Is(err, conversation.ErrEmptyMessage):
		jsonError(w, http.StatusBadRequest, "message text required")
		return
	case errors.Is(err, conversation.ErrExpired):
		jsonError(w, http.StatusConflict, "conversation is closed")
		return
	case err != nil:
		jsonError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	msg := updated.Messages[len(updated.Messages)-1]
	if err := store.AppendMessage(r.Context(), h.DB, conv.ID, msg); err != nil {
		if errors.Is(err, store.ErrConversationClosed) {
			jsonError(w, http.StatusConflict, "conversation is closed")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to save message")
		return
	}

	saved, err := store.GetConversation(r.Context(), h.DB, conv.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	jsonResponse(w, http.StatusCreated, saved)
}

// GetByItem handles GET /api/items/{id}/conversation.
func (h *ConversationsHandler) GetByItem(w http.ResponseWriter, r *http.Request) {
	conv, err := store.GetConversationByItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	if conv == nil {
		jsonError(w, http.StatusNotFound, "no conversation for item")
		return
	}
	jsonResponse(w, http.StatusOK, conv)
}

// Get handles GET /api/conversations/{id}.
func (h *ConversationsHandler) Get(w http.ResponseWriter, r *http.Request) {
	conv, err := store.GetConversation(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	if conv == nil {
		jsonError(w, http.StatusNotFound, "conversation not found")
		return
	}
	jsonResponse(w, http.StatusOK, conv)
}

// Resolve handles POST /api/conversations/{id}/resolve. A successful resolve
// credits the item's poster with a completed return.
func (h *ConversationsHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	conv, err := store.GetConversation(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	if conv == nil {
		jsonError(w, http.StatusNotFound, "conversation not found")
		return
	}

	if _, err := conversation.Resolve(*conv); err != nil {
		if errors.Is(err, conversation.ErrNotResolvable) {
			jsonError(w, http.StatusConflict, "conversation cannot be resolved")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to resolve conversation")
		return
	}

	// The conditional update serializes concurrent resolves: only the
	// winner credits the poster below.
	ok, err := store.ResolveConversation(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update conversation")
		return
	}
	if !ok {
		jsonError(w, http.StatusConflict, "conversation cannot be resolved")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, conv.ItemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item != nil {
		if err := store.RecordItemReturned(r.Context(), h.DB, item.PosterID); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to record return")
			return
		}
	}

	saved, err := store.GetConversation(r.Context(), h.DB, id)
	if err != nil || saved == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get conversation")
		return
	}
	jsonResponse(w, http.StatusOK, saved)
}
