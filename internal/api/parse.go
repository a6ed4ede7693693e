package api

import (
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/parse"
)

// ParseHandler serves the smart posting composer: free-text parsing and
// ghost-text completion.
type ParseHandler struct {
	Now func() time.Time
}

type parseRequest struct {
	Text string `json:"text"`
}

// Parse handles POST /api/parse.
func (h *ParseHandler) Parse(w http.ResponseWriter, r *http.Request) {
	var req parseRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Text == "" {
		jsonError(w, http.StatusBadRequest, "text required")
		return
	}

	jsonResponse(w, http.StatusOK, parse.Parse(req.Text, h.Now()))
}

// Ghost handles GET /api/parse/ghost.
func (h *ParseHandler) Ghost(w http.ResponseWriter, r *http.Request) {
	partial := r.URL.Query().Get("partial")
	jsonResponse(w, http.StatusOK, map[string]string{
		"ghost": parse.GhostText(partial),
	})
}
