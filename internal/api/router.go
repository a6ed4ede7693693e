package api

import (
	"crypto/rand"
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/verify"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB) http.Handler {
	mux := http.NewServeMux()

	itemsHandler := &ItemsHandler{DB: db}
	matchesHandler := &MatchesHandler{DB: db, Now: time.Now}
	claimsHandler := &ClaimsHandler{
		DB:     db,
		Issuer: verify.Issuer{Rand: rand.Reader, Now: time.Now},
		Scorer: verify.Heuristic{},
		Now:    time.Now,
	}
	conversationsHandler := &ConversationsHandler{DB: db, Now: time.Now}
	reputationHandler := &ReputationHandler{DB: db}
	parseHandler := &ParseHandler{Now: time.Now}

	// Postings.
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("POST /api/items", itemsHandler.Create)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("PUT /api/items/{id}", itemsHandler.Update)
	mux.HandleFunc("DELETE /api/items/{id}", itemsHandler.Delete)
	mux.HandleFunc("POST /api/items/{id}/renew", itemsHandler.Renew)
	mux.HandleFunc("PUT /api/items/{id}/image", itemsHandler.UploadImage)
	mux.HandleFunc("GET /api/items/{id}/image", itemsHandler.GetImage)

	// Matching and discovery.
	mux.HandleFunc("GET /api/items/{id}/matches", matchesHandler.List)
	mux.HandleFunc("GET /api/buckets", matchesHandler.Buckets)
	mux.HandleFunc("GET /api/tags/trending", matchesHandler.TrendingTags)

	// Claim verification.
	mux.HandleFunc("POST /api/items/{id}/token", claimsHandler.IssueToken)
	mux.HandleFunc("GET /api/items/{id}/questions", claimsHandler.Questions)
	mux.HandleFunc("GET /api/items/{id}/quiz", claimsHandler.Quiz)
	mux.HandleFunc("POST /api/items/{id}/quiz", claimsHandler.SubmitQuiz)
	mux.HandleFunc("POST /api/items/{id}/claims", claimsHandler.SubmitClaim)
	mux.HandleFunc("GET /api/items/{id}/claims", claimsHandler.ListClaims)
	mux.HandleFunc("PUT /api/claims/{id}", claimsHandler.ReviewClaim)

	// Conversations.
	mux.HandleFunc("POST /api/items/{id}/messages", conversationsHandler.SendMessage)
	mux.HandleFunc("GET /api/items/{id}/conversation", conversationsHandler.GetByItem)
	mux.HandleFunc("GET /api/conversations/{id}", conversationsHandler.Get)
	mux.HandleFunc("POST /api/conversations/{id}/resolve", conversationsHandler.Resolve)

	// Reputation.
	mux.HandleFunc("GET /api/users/{id}/reputation", reputationHandler.Get)
	mux.HandleFunc("GET /api/leaderboard", reputationHandler.Leaderboard)

	// Smart composer.
	mux.HandleFunc("POST /api/parse", parseHandler.Parse)
	mux.HandleFunc("GET /api/parse/ghost", parseHandler.Ghost)

	return mux
}
