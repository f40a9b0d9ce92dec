package analytics

import (
	"context"
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

// HandleStatistics обрабатывает GET /v1/analytics/statistics
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.service.Statistics)
}

// HandleEffectiveness обрабатывает GET /v1/analytics/effectiveness
func (h *Handler) HandleEffectiveness(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.service.Effectiveness)
}

// HandleCorrelations обрабатывает GET /v1/analytics/correlations
func (h *Handler) HandleCorrelations(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.service.Correlations)
}

// HandleWeekly обрабатывает GET /v1/analytics/weekly
func (h *Handler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	serve(w, r, h.service.Weekly)
}

func serve[T any](w http.ResponseWriter, r *http.Request, run func(context.Context, Query) (T, error)) {
	q, ok := parseQuery(w, r)
	if !ok {
		return
	}

	resp, err := run(r.Context(), q)
	if err != nil {
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseQuery(w http.ResponseWriter, r *http.Request) (Query, bool) {
	values := r.URL.Query()

	raw := strings.TrimSpace(values.Get("profile_id"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return Query{}, false
	}
	profileID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid profile_id")
		return Query{}, false
	}

	q := Query{ProfileID: profileID, To: strings.TrimSpace(values.Get("to"))}
	if rawDays := strings.TrimSpace(values.Get("days")); rawDays != "" {
		days, err := strconv.Atoi(rawDays)
		if err != nil || days <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_days", "days must be a positive integer")
			return Query{}, false
		}
		q.Days = days
	}
	return q, true
}

func handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid request")
	case errors.Is(err, ErrInvalidDays):
		writeError(w, http.StatusBadRequest, "invalid_days", "days must be between 1 and 365")
	case errors.Is(err, ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", "Invalid date format")
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
