package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shopkart/internal/model"
	"shopkart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ReviewHandler handles review-related HTTP requests.
type ReviewHandler struct {
	service service.ReviewService
	logger  zerolog.Logger
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(service service.ReviewService, logger zerolog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger.With().Str("handler", "review").Logger(),
	}
}

// Create handles POST /api/reviews. The body is a multipart form with
// review fields plus optional "images" files.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid rating", h.logger)
		return
	}

	req := &model.ReviewRequest{
		ProductID: r.FormValue("productId"),
		UserID:    r.FormValue("userId"),
		Rating:    rating,
		Comment:   r.FormValue("comment"),
	}

	images, err := formFiles(r, "images")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	review, err := h.service.Create(r.Context(), req, images)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// ReplaceImages handles PUT /api/reviews/{id}/images with multipart "images"
// files.
func (h *ReviewHandler) ReplaceImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxAttachmentMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", h.logger)
		return
	}

	images, err := formFiles(r, "images")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	review, err := h.service.ReplaceImages(r.Context(), id, images)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /api/reviews/{id} requests.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	id, ok := h.reviewID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByProduct handles GET /api/reviews?productId=&page=&limit= requests.
func (h *ReviewHandler) ListByProduct(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	productID := r.URL.Query().Get("productId")
	page := intQuery(r, "page", 1)
	limit := intQuery(r, "limit", 10)

	reviews, err := h.service.ListByProduct(r.Context(), productID, page, limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if reviews == nil {
		reviews = []model.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

// reviewID extracts the review UUID from /api/reviews/{id}[/images].
func (h *ReviewHandler) reviewID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := pathSuffix(r, "/api/reviews/")
	raw = strings.TrimSuffix(raw, "/images")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid review ID", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
