package api

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
	"github.com/erazemk/najdeno/internal/verify"
)

// ClaimsHandler drives the claim verification flow: token issuance,
// question generation, quizzes, claim submission, and review.
type ClaimsHandler struct {
	DB     *sql.DB
	Issuer verify.Issuer
	Scorer verify.AnswerScorer
	Now    func() time.Time
}

type issueTokenRequest struct {
	Days int `json:"days"`
}

// IssueToken handles POST /api/items/{id}/token. The token is returned once
// to the poster and never appears in item responses.
func (h *ClaimsHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
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

	var req issueTokenRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Days < 0 {
		jsonError(w, http.StatusBadRequest, "days must not be negative")
		return
	}
	if req.Days == 0 {
		req.Days = verify.DefaultExpiryDays
	}

	token, err := h.Issuer.Issue(true, req.Days)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	if err := store.SetClaimToken(r.Context(), h.DB, id, token.Value, token.Expiry); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save token")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]any{
		"token":  token.Value,
		"expiry": token.Expiry,
	})
}

// Questions handles GET /api/items/{id}/questions. Questions are generated
// once per item and persisted, so repeated calls return the same set.
func (h *ClaimsHandler) Questions(w http.ResponseWriter, r *http.Request) {
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

	questions := item.VerificationQuestions
	if len(questions) == 0 {
		questions = verify.Questions(*item)
		if err := store.SetItemQuestions(r.Context(), h.DB, id, questions); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to save questions")
			return
		}
	}

	for i := range questions {
		questions[i].CorrectAnswer = ""
	}
	jsonResponse(w, http.StatusOK, questions)
}

// Quiz handles GET /api/items/{id}/quiz. Correct answers are stripped; the
// quiz is graded server side.
func (h *ClaimsHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	quiz := verify.ChoiceQuiz(*item)
	for i := range quiz {
		quiz[i].CorrectAnswer = ""
	}
	jsonResponse(w, http.StatusOK, quiz)
}

type quizSubmission struct {
	Answers []string `json:"answers"`
}

// SubmitQuiz handles POST /api/items/{id}/quiz. The quiz is deterministic
// per item, so regenerating it recovers the correct answers.
func (h *ClaimsHandler) SubmitQuiz(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	var req quizSubmission
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result := verify.EvaluateQuiz(verify.ChoiceQuiz(*item), req.Answers)
	jsonResponse(w, http.StatusOK, map[string]any{
		"passed":        result.Passed,
		"correct_count": result.CorrectCount,
	})
}

type submitClaimRequest struct {
	ClaimantID string   `json:"claimant_id"`
	ClaimToken string   `json:"claim_token"`
	Answers    []string `json:"answers"`
}

// SubmitClaim handles POST /api/items/{id}/claims. Valid claims go to the
// pending queue; suspicious ones are flagged for manual review instead of
// being rejected outright.
func (h *ClaimsHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
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
	if item.Status != model.ItemStatusActive {
		jsonError(w, http.StatusConflict, "item is no longer claimable")
		return
	}

	var req submitClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ClaimantID == "" {
		jsonError(w, http.StatusBadRequest, "claimant_id required")
		return
	}

	// The token check only applies when the poster issued one.
	now := h.Now()
	if item.ClaimToken != "" {
		if err := verify.CheckToken(req.ClaimToken, *item, now); err != nil {
			switch {
			case errors.Is(err, verify.ErrExpiredToken):
				jsonError(w, http.StatusForbidden, "claim token expired")
			default:
				jsonError(w, http.StatusForbidden, "invalid claim token")
			}
			return
		}
	}

	if err := verify.RequireAnswers(item.VerificationQuestions, req.Answers); err != nil {
		jsonError(w, http.StatusBadRequest, "all required questions must be answered")
		return
	}

	result := h.Scorer.ScoreAnswers(*item, req.Answers, now)
	status := model.ClaimStatusFlagged
	if result.IsValid {
		status = model.ClaimStatusPending
	}

	claim, err := store.CreateClaim(r.Context(), h.DB, model.ClaimRequest{
		ItemID:     id,
		ClaimantID: req.ClaimantID,
		ClaimToken: req.ClaimToken,
		Answers:    req.Answers,
		Status:     status,
		Score:      &result.Score,
		Flags:      result.Flags,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create claim")
		return
	}

	jsonResponse(w, http.StatusCreated, claim)
}

// ListClaims handles GET /api/items/{id}/claims.
func (h *ClaimsHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := store.ListClaimsForItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list claims")
		return
	}
	if claims == nil {
		claims = []model.ClaimRequest{}
	}
	jsonResponse(w, http.StatusOK, claims)
}

type reviewClaimRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// ReviewClaim handles PUT /api/claims/{id}. Approval marks the item claimed
// and credits the claimant; only one approval can win per item.
func (h *ClaimsHandler) ReviewClaim(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	claim, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	if claim == nil {
		jsonError(w, http.StatusNotFound, "claim not found")
		return
	}
	if claim.Status == model.ClaimStatusApproved || claim.Status == model.ClaimStatusRejected {
		jsonError(w, http.StatusConflict, "claim already reviewed")
		return
	}

	var req reviewClaimRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Status != model.ClaimStatusApproved && req.Status != model.ClaimStatusRejected {
		jsonError(w, http.StatusBadRequest, "status must be 'approved' or 'rejected'")
		return
	}

	if req.Status == model.ClaimStatusApproved {
		ok, err := store.MarkItemClaimed(r.Context(), h.DB, claim.ItemID)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to mark item claimed")
			return
		}
		if !ok {
			jsonError(w, http.StatusConflict, "item already claimed")
			return
		}
	}

	success := req.Status == model.ClaimStatusApproved
	if err := store.RecordClaimOutcome(r.Context(), h.DB, claim.ClaimantID, success); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to record claim outcome")
		return
	}

	if err := store.UpdateClaimStatus(r.Context(), h.DB, id, req.Status, req.Notes); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update claim")
		return
	}

	updated, err := store.GetClaim(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get claim")
		return
	}
	jsonResponse(w, http.StatusOK, updated)
}
