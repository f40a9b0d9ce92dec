package summaries

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGenerate обрабатывает POST /v1/summaries
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	resp, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList обрабатывает GET /v1/summaries
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
			return
		}
		limit = parsed
	}

	resp, err := h.service.List(r.Context(), profileID, limit)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleLatest обрабатывает GET /v1/summaries/latest
func (h *Handler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Latest(r.Context(), profileID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseProfileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("profile_id"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return uuid.Nil, false
	}

	profileID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid profile_id")
		return uuid.Nil, false
	}
	return profileID, true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request")
	case errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date format")
	case errors.Is(err, ErrInvalidSample):
		writeError(w, http.StatusBadRequest, "invalid_sample", err.Error())
	case errors.Is(err, ErrSampleNotFound):
		writeError(w, http.StatusNotFound, "sample_not_found", "No sample stored for this date")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "summary_not_found", "No summaries yet")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
