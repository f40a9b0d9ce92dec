package samples

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
)

// Handler содержит HTTP обработчики для замеров
type Handler struct {
	service *Service
}

// NewHandler создаёт новый handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSync обрабатывает POST /v1/samples/sync
func (h *Handler) HandleSync(w http.ResponseWriter, r *http.Request) {
	var req SyncSamplesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.Sync(r.Context(), req)
	if err != nil {
		h.sendServiceError(w, err, "Failed to sync samples")
		return
	}

	h.sendJSON(w, http.StatusOK, resp)
}

// HandleList обрабатывает GET /v1/samples
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profileIDStr := r.URL.Query().Get("profile_id")
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	if profileIDStr == "" || from == "" || to == "" {
		h.sendError(w, http.StatusBadRequest, "missing_params", "Missing required parameters")
		return
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
		return
	}

	items, err := h.service.List(r.Context(), profileID, from, to)
	if err != nil {
		h.sendServiceError(w, err, "Failed to list samples")
		return
	}

	h.sendJSON(w, http.StatusOK, ListSamplesResponse{ProfileID: profileID, Samples: items})
}

func (h *Handler) sendServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidProfile):
		h.sendError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile ID")
	case errors.Is(err, ErrInvalidDate):
		h.sendError(w, http.StatusBadRequest, "invalid_date", "Invalid date format")
	case errors.Is(err, ErrInvalidRange):
		h.sendError(w, http.StatusBadRequest, "invalid_range", "Invalid date range")
	case errors.Is(err, ErrInvalidScore):
		h.sendError(w, http.StatusBadRequest, "invalid_score", err.Error())
	case errors.Is(err, ErrEmptyFeatures):
		h.sendError(w, http.StatusBadRequest, "empty_features", "Sample must contain at least one feature")
	case errors.Is(err, ErrEmptyBatch):
		h.sendError(w, http.StatusBadRequest, "empty_batch", "No samples provided")
	case errors.Is(err, ErrBatchTooLarge):
		h.sendError(w, http.StatusRequestEntityTooLarge, "batch_too_large", "Too many samples in one request")
	default:
		h.sendError(w, http.StatusInternalServerError, "internal_error", fallback)
	}
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
