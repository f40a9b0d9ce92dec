package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Handlers exposes the reports service over HTTP.
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}
	req.Format = strings.ToLower(strings.TrimSpace(req.Format))

	report, err := h.service.CreateReport(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDTO(*report, requestBaseURL(r)))
}

// HandleList handles GET /v1/reports?profile_id&limit&offset
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	raw := strings.TrimSpace(q.Get("profile_id"))
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing_profile_id", "profile_id is required")
		return
	}
	profileID, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "Invalid profile_id format")
		return
	}

	limit := queryInt(q.Get("limit"), defaultListLimit, 1, maxListLimit)
	offset := queryInt(q.Get("offset"), 0, 0, -1)

	reports, err := h.service.ListReports(r.Context(), profileID, limit, offset)
	if err != nil {
		h.handleError(w, err)
		return
	}

	base := requestBaseURL(r)
	resp := ReportsResponse{Reports: make([]ReportDTO, 0, len(reports))}
	for _, report := range reports {
		resp.Reports = append(resp.Reports, toDTO(report, base))
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /v1/reports/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	report, err := h.service.GetReport(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDTO(*report, requestBaseURL(r)))
}

// HandleDownload handles GET /v1/reports/{id}/download. It redirects when the
// blob store can hand out a URL and streams the bytes otherwise.
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	dl, err := h.service.Download(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if dl.RedirectURL != "" {
		http.Redirect(w, r, dl.RedirectURL, http.StatusFound)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", dl.ContentType)
	hdr.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": dl.Filename}))
	hdr.Set("Content-Length", strconv.Itoa(len(dl.Data)))
	hdr.Set("Cache-Control", "private, no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(dl.Data)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteReport(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type apiError struct {
	target  error
	status  int
	code    string
	message string
}

var apiErrors = []apiError{
	{ErrInvalidProfile, http.StatusBadRequest, "invalid_profile_id", "Invalid profile_id"},
	{ErrInvalidFormat, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'"},
	{ErrInvalidDate, http.StatusBadRequest, "invalid_date", "Invalid date format, use YYYY-MM-DD"},
	{ErrInvalidDateRange, http.StatusBadRequest, "invalid_range", "From date must not be after to date"},
	{ErrReportNotFound, http.StatusNotFound, "report_not_found", "Report not found"},
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrRangeTooLarge) {
		writeError(w, http.StatusBadRequest, "range_too_large",
			fmt.Sprintf("Date range exceeds maximum of %d days", h.service.MaxRangeDays()))
		return
	}
	for _, e := range apiErrors {
		if errors.Is(err, e.target) {
			writeError(w, e.status, e.code, e.message)
			return
		}
	}
	writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return uuid.Nil, false
	}
	return id, true
}

// queryInt parses raw and falls back to def when it is missing or outside
// [lo, hi]. hi < 0 means no upper bound.
func queryInt(raw string, def, lo, hi int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || (hi >= 0 && n > hi) {
		return def
	}
	return n
}

func toDTO(report Report, baseURL string) ReportDTO {
	return ReportDTO{
		ID:          report.ID,
		ProfileID:   report.ProfileID,
		Format:      report.Format,
		From:        report.FromDate,
		To:          report.ToDate,
		DownloadURL: baseURL + "/v1/reports/" + report.ID.String() + "/download",
		SizeBytes:   report.SizeBytes,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// requestBaseURL honours X-Forwarded-Proto and X-Forwarded-Host from a
// reverse proxy.
func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		scheme = "https"
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host = fwd
	}
	return scheme + "://" + host
}
