package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/erazemk/najdeno/internal/imaging"
	"github.com/erazemk/najdeno/internal/model"
	"github.com/erazemk/najdeno/internal/store"
)

// ItemsHandler handles posting CRUD and image endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

type createItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Kind        string   `json:"kind"`
	Category    string   `json:"category"`
	Color       string   `json:"color"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	PosterID    string   `json:"poster_id"`
	ContactInfo string   `json:"contact_info"`
}

type updateItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Color       string   `json:"color"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
	ContactInfo string   `json:"contact_info"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	kind := r.URL.Query().Get("kind")
	if status != "" && !model.ValidItemStatus(status) {
		jsonError(w, http.StatusBadRequest, "invalid status")
		return
	}
	if kind != "" && !model.ValidKind(kind) {
		jsonError(w, http.StatusBadRequest, "invalid kind")
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, status, kind)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, redactItems(items))
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title == "" || req.Category == "" || req.Location == "" {
		jsonError(w, http.StatusBadRequest, "title, category, and location required")
		return
	}
	if !model.ValidKind(req.Kind) {
		jsonError(w, http.StatusBadRequest, "kind must be 'lost' or 'found'")
		return
	}
	if req.PosterID == "" {
		jsonError(w, http.StatusBadRequest, "poster_id required")
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	item, err := store.CreateItem(r.Context(), h.DB, model.Item{
		Title:       req.Title,
		Description: req.Description,
		Kind:        req.Kind,
		Category:    req.Category,
		Color:       req.Color,
		Location:    req.Location,
		Date:        date,
		Tags:        req.Tags,
		PosterID:    req.PosterID,
		ContactInfo: req.ContactInfo,
	})
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	if req.Kind == model.KindFound {
		if err := store.RecordItemFound(r.Context(), h.DB, req.PosterID); err != nil {
			jsonError(w, http.StatusInternalServerError, "failed to record found item")
			return
		}
	}

	jsonResponse(w, http.StatusCreated, item)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := store.GetItem(r.Context(), h.DB, r.PathValue("id"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, redact(*item))
}

// Update handles PUT /api/items/{id}.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
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

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(w, http.StatusBadRequest, "title required")
		return
	}

	date := item.Date
	if req.Date != "" {
		date, err = time.Parse("2006-01-02", req.Date)
		if err != nil {
			jsonError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	}

	item.Title = req.Title
	item.Description = req.Description
	item.Category = req.Category
	item.Color = req.Color
	item.Location = req.Location
	item.Date = date
	item.Tags = req.Tags
	item.ContactInfo = req.ContactInfo
	if err := store.UpdateItem(r.Context(), h.DB, *item); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	updated, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || updated == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, redact(*updated))
}

// Delete handles DELETE /api/items/{id}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := store.DeleteItem(r.Context(), h.DB, r.PathValue("id")); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

// Renew handles POST /api/items/{id}/renew.
func (h *ItemsHandler) Renew(w http.ResponseWriter, r *http.Request) {
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
		jsonError(w, http.StatusConflict, "only active postings can be renewed")
		return
	}

	if err := store.RenewItem(r.Context(), h.DB, id); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to renew item")
		return
	}

	renewed, err := store.GetItem(r.Context(), h.DB, id)
	if err != nil || renewed == nil {
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	jsonResponse(w, http.StatusOK, redact(*renewed))
}

// UploadImage handles PUT /api/items/{id}/image. The photo is downscaled and
// re-encoded, and a blurred privacy preview is stored alongside it.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
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

	// Limit to 5 MB.
	r.Body = http.MaxBytesReader(w, r.Body, 5<<20)

	if err := r.ParseMultipartForm(5 << 20); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "image file required")
		return
	}
	defer file.Close()

	processed, err := imaging.Process(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := file.Seek(0, 0); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read image")
		return
	}
	blurred, err := imaging.Blur(file)
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := store.SetItemImage(r.Context(), h.DB, id, processed.Data, processed.MIME, blurred.Data); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to save image")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "image uploaded"})
}

// GetImage handles GET /api/items/{id}/image. Pass ?blurred=true for the
// privacy preview.
func (h *ItemsHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	blurred := r.URL.Query().Get("blurred") == "true"
	data, mime, err := store.GetItemImage(r.Context(), h.DB, r.PathValue("id"), blurred)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to get image")
		return
	}
	if data == nil {
		jsonError(w, http.StatusNotFound, "no image")
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(data)
}

// redact strips claim verification material from API responses. The token
// and correct answers travel out of band to the poster.
func redact(item model.Item) model.Item {
	item.ClaimToken = ""
	item.ClaimTokenExpiry = nil
	for i := range item.VerificationQuestions {
		item.VerificationQuestions[i].CorrectAnswer = ""
	}
	return item
}

func redactItems(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	for i, item := range items {
		out[i] = redact(item)
	}
	return out
}
