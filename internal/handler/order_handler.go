package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"shopkart/internal/media"
	"shopkart/internal/model"
	"shopkart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// idempotencyKeyHeader carries the optional client token that makes order
// creation safe to retry.
const idempotencyKeyHeader = "Idempotency-Key"

// maxAttachmentMemory bounds the in-memory portion of multipart parsing.
const maxAttachmentMemory = 16 << 20 // 16 MiB

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders. The body is either a JSON order payload
// or a multipart form with an "order" JSON field plus "attachments" files.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	req, attachments, err := h.decodeCreate(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	req.IdempotencyKey = strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))

	order, err := h.service.PlaceOrder(r.Context(), req, attachments)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	raw := pathSuffix(r, "/api/orders/")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID", h.logger)
		return
	}

	order, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if order == nil {
		writeServiceError(w, model.NewNotFound("order", raw), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// List handles GET /api/orders?customerId=&page=&limit= requests.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	customerID := r.URL.Query().Get("customerId")
	page := intQuery(r, "page", 1)
	limit := intQuery(r, "limit", 10)

	orders, err := h.service.ListByCustomer(r.Context(), customerID, page, limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// decodeCreate parses the order payload from either encoding.
func (h *OrderHandler) decodeCreate(r *http.Request) (*model.OrderRequest, []media.File, error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxAttachmentMemory); err != nil {
			return nil, nil, model.NewInvalidInput("invalid multipart form")
		}

		var req model.OrderRequest
		if err := json.Unmarshal([]byte(r.FormValue("order")), &req); err != nil {
			return nil, nil, model.NewInvalidInput("invalid order payload")
		}

		files, err := formFiles(r, "attachments")
		if err != nil {
			return nil, nil, err
		}
		return &req, files, nil
	}

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, nil, model.NewInvalidInput("invalid request body")
	}
	return &req, nil, nil
}

// formFiles reads all uploaded files under the given multipart field.
func formFiles(r *http.Request, field string) ([]media.File, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	var files []media.File
	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			return nil, model.NewInvalidInput("unreadable uploaded file")
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, model.NewInvalidInput("unreadable uploaded file")
		}
		files = append(files, media.File{Name: header.Filename, Data: data})
	}
	return files, nil
}
