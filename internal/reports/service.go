package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/skin-hub/internal/blob"
	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
)

// Errors
var (
	ErrInvalidProfile   = errors.New("invalid profile id")
	ErrInvalidFormat    = errors.New("invalid format")
	ErrInvalidDate      = errors.New("invalid date format")
	ErrInvalidDateRange = errors.New("from date must be before to date")
	ErrRangeTooLarge    = errors.New("date range too large")
	ErrReportNotFound   = errors.New("report not found")
)

type Logger interface {
	Printf(format string, v ...any)
}

// Settings tune report storage and download links.
type Settings struct {
	MaxRangeDays    int
	PresignTTL      int
	PublicBaseURL   string
	PreferPublicURL bool
}

// Service handles reports business logic
type Service struct {
	reportsStorage storage.ReportsStorage
	generator      *Generator
	blobStore      blob.Store
	settings       Settings
	logger         Logger
}

// NewService creates a new reports service
func NewService(reportsStorage storage.ReportsStorage, generator *Generator, blobStore blob.Store, settings Settings, logger Logger) *Service {
	if settings.MaxRangeDays <= 0 {
		settings.MaxRangeDays = 90
	}
	return &Service{
		reportsStorage: reportsStorage,
		generator:      generator,
		blobStore:      blobStore,
		settings:       settings,
		logger:         logger,
	}
}

// MaxRangeDays returns the largest accepted report range.
func (s *Service) MaxRangeDays() int {
	return s.settings.MaxRangeDays
}

// CreateReport generates the file, uploads it and stores its metadata
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	if req.ProfileID == uuid.Nil {
		return nil, ErrInvalidProfile
	}
	if req.Format != FormatPDF && req.Format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	fromDate, err := time.Parse("2006-01-02", req.From)
	if err != nil {
		return nil, ErrInvalidDate
	}
	toDate, err := time.Parse("2006-01-02", req.To)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if fromDate.After(toDate) {
		return nil, ErrInvalidDateRange
	}

	daysDiff := int(toDate.Sub(fromDate).Hours() / 24)
	if daysDiff > s.settings.MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	data, err := s.generator.GenerateReport(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	objectKey := fmt.Sprintf("reports/%s/%s_%s_%s.%s",
		req.ProfileID.String(),
		req.From,
		req.To,
		uuid.New().String(),
		req.Format,
	)

	size, err := s.blobStore.PutObject(ctx, objectKey, data, contentTypeFor(req.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to upload report: %w", err)
	}

	meta := &storage.ReportMeta{
		ProfileID: req.ProfileID,
		Format:    req.Format,
		FromDate:  req.From,
		ToDate:    req.To,
		ObjectKey: objectKey,
		SizeBytes: size,
		Status:    StatusReady,
	}

	if err := s.reportsStorage.CreateReport(ctx, meta); err != nil {
		if delErr := s.blobStore.DeleteObject(ctx, objectKey); delErr != nil {
			s.logf("WARN reports: orphaned object key=%s: %v", objectKey, delErr)
		}
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	return toReport(meta), nil
}

// GetReport retrieves a report by ID
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	meta, err := s.getMeta(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReport(meta), nil
}

// ListReports lists reports for a profile, newest first
func (s *Service) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]Report, error) {
	if profileID == uuid.Nil {
		return nil, ErrInvalidProfile
	}

	metaList, err := s.reportsStorage.ListReports(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	reports := make([]Report, len(metaList))
	for i := range metaList {
		reports[i] = *toReport(&metaList[i])
	}

	return reports, nil
}

// DeleteReport removes the stored object and the metadata
func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.getMeta(ctx, id)
	if err != nil {
		return err
	}

	if err := s.blobStore.DeleteObject(ctx, meta.ObjectKey); err != nil {
		// Metadata is removed anyway; the object is only logged.
		s.logf("WARN reports: failed to delete object key=%s: %v", meta.ObjectKey, err)
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrReportNotFound
		}
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}

	return nil
}

// Download resolves how a report is delivered: a public URL, a presigned
// URL, or the bytes themselves when the store cannot presign.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (*Download, error) {
	meta, err := s.getMeta(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.settings.PreferPublicURL && s.settings.PublicBaseURL != "" {
		return &Download{RedirectURL: strings.TrimSuffix(s.settings.PublicBaseURL, "/") + "/" + meta.ObjectKey}, nil
	}

	url, err := s.blobStore.PresignGet(ctx, meta.ObjectKey, s.settings.PresignTTL)
	if err == nil {
		return &Download{RedirectURL: url}, nil
	}
	if !errors.Is(err, blob.ErrPresignUnsupported) {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	data, err := s.blobStore.GetObject(ctx, meta.ObjectKey)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	return &Download{
		Data:        data,
		ContentType: contentTypeFor(meta.Format),
		Filename:    fmt.Sprintf("skin_report_%s_%s.%s", meta.FromDate, meta.ToDate, meta.Format),
	}, nil
}

func (s *Service) getMeta(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}
	return meta, nil
}

func (s *Service) logf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}

func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		ProfileID: meta.ProfileID,
		Format:    meta.Format,
		FromDate:  meta.FromDate,
		ToDate:    meta.ToDate,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		CreatedAt: meta.CreatedAt,
	}
}
