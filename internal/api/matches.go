package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/match"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// MatchesHandler serves match suggestions and discovery endpoints.
type MatchesHandler struct {
	DB  *sql.DB
	Now func() time.Time
}

// List handles GET /api/items/{id}/matches.
func (h *MatchesHandler) List(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	pool, err := store.ListItems(r.Context(), h.DB, model.ItemStatusActive, "")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	suggestions := match.Suggestions(*item, pool)
	if suggestions == nil {
		suggestions = []model.MatchSuggestion{}
	}
	jsonResponse(w, http.StatusOK, suggestions)
}

// Buckets handles GET /api/buckets.
func (h *MatchesHandler) Buckets(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB, model.ItemStatusActive, "")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	jsonResponse(w, http.StatusOK, match.Buckets(items))
}

// TrendingTags handles GET /api/tags/trending.
func (h *MatchesHandler) TrendingTags(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB, model.ItemStatusActive, "")
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}

	trending := match.TrendingTags(items, h.Now())
	if trending == nil {
		trending = []match.TagTrend{}
	}
	jsonResponse(w, http.StatusOK, trending)
}
