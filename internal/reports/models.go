package reports

import (
	"time"

	"github.com/google/uuid"
)

// CreateReportRequest is the request to create a new report
type CreateReportRequest struct {
	ProfileID uuid.UUID `json:"profile_id"`
	From      string    `json:"from"`   // YYYY-MM-DD
	To        string    `json:"to"`     // YYYY-MM-DD
	Format    string    `json:"format"` // "pdf" or "csv"
}

// Report represents stored report metadata
type Report struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Format    string
	FromDate  string
	ToDate    string
	ObjectKey string
	SizeBytes int64
	Status    string
	CreatedAt time.Time
}

// ReportDTO is the response representation of a report
type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	Format      string    `json:"format"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportsResponse is the list response
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

// ErrorResponse is the standard error envelope.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Download is either a redirect target or the file contents.
type Download struct {
	RedirectURL string
	Data        []byte
	ContentType string
	Filename    string
}

// Constants for validation
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"

	StatusReady  = "ready"
	StatusFailed = "failed"
)

func contentTypeFor(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}
