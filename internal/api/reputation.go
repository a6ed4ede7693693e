package api

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

const defaultLeaderboardSize = 10

// ReputationHandler serves reputation scores and the leaderboard.
type ReputationHandler struct {
	DB *sql.DB
}

// Get handles GET /api/users/{id}/reputation.
func (h *ReputationHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := store.GetReputation(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get reputation")
		return
	}
	jsonResponse(w, http.StatusOK, rec)
}

// Leaderboard handles GET /api/leaderboard.
func (h *ReputationHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := defaultLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			jsonError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	board, err := store.Leaderboard(r.Context(), h.DB, limit)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}
	if board == nil {
		board = []model.ReputationRecord{}
	}
	jsonResponse(w, http.StatusOK, board)
}
