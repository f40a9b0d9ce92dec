package summaries

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/fdg312/skin-hub/internal/samples"
	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidSample  = errors.New("invalid current sample")
	ErrSampleNotFound = errors.New("sample not found")
	ErrNotFound       = errors.New("summary not found")
)

const defaultHistoryDays = 30

type composer interface {
	Compose(ctx context.Context, current insights.FeatureSample, routine insights.Routine, history []insights.FeatureSample) insights.SummaryResult
}

type sampleSource interface {
	Get(ctx context.Context, profileID uuid.UUID, date string) (*insights.FeatureSample, error)
	History(ctx context.Context, profileID uuid.UUID, before string, days int) ([]insights.FeatureSample, error)
}

type Service struct {
	composer    composer
	samples     sampleSource
	storage     storage.SummariesStorage
	historyDays int
	now         func() time.Time
}

func NewService(c composer, samples sampleSource, st storage.SummariesStorage, historyDays int) *Service {
	if historyDays <= 0 {
		historyDays = defaultHistoryDays
	}
	return &Service{
		composer:    c,
		samples:     samples,
		storage:     st,
		historyDays: historyDays,
		now:         time.Now,
	}
}

// Generate composes a summary for one day and stores it. The current sample
// comes from the request or from the stored sample for that date.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*SummaryDTO, error) {
	if req.ProfileID == uuid.Nil {
		return nil, ErrInvalidRequest
	}

	date := req.Date
	if date == "" {
		date = s.now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, ErrInvalidDate
	}

	current, err := s.currentSample(ctx, req, date)
	if err != nil {
		return nil, err
	}

	routine := current.Routine
	if req.Routine != nil {
		routine = *req.Routine
	}

	history, err := s.samples.History(ctx, req.ProfileID, date, s.historyDays)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	result := s.composer.Compose(ctx, current, routine, history)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	record := &storage.SummaryRecord{
		ProfileID: req.ProfileID,
		Date:      date,
		Variant:   string(result.Provenance.Variant),
		Path:      string(result.Provenance.Path),
		Payload:   payload,
		CreatedAt: s.now().UTC(),
	}
	if reason := result.Provenance.FallbackReason; reason != "" {
		record.FallbackReason = &reason
	}

	if err := s.storage.InsertSummary(ctx, record); err != nil {
		return nil, err
	}

	return &SummaryDTO{
		ID:        record.ID,
		ProfileID: record.ProfileID,
		Date:      record.Date,
		CreatedAt: record.CreatedAt,
		Summary:   result,
	}, nil
}

func (s *Service) currentSample(ctx context.Context, req GenerateRequest, date string) (insights.FeatureSample, error) {
	if req.Current != nil {
		current := *req.Current
		if current.Date == "" {
			current.Date = date
		}
		if err := samples.ValidateSample(current); err != nil {
			return insights.FeatureSample{}, fmt.Errorf("%w: %v", ErrInvalidSample, err)
		}
		return current, nil
	}

	stored, err := s.samples.Get(ctx, req.ProfileID, date)
	if errors.Is(err, samples.ErrSampleNotFound) {
		return insights.FeatureSample{}, ErrSampleNotFound
	}
	if err != nil {
		return insights.FeatureSample{}, err
	}
	return *stored, nil
}

func (s *Service) List(ctx context.Context, profileID uuid.UUID, limit int) (*ListSummariesResponse, error) {
	if profileID == uuid.Nil {
		return nil, ErrInvalidRequest
	}

	rows, err := s.storage.ListSummaries(ctx, profileID, normalizeLimit(limit))
	if err != nil {
		return nil, err
	}

	items := make([]SummaryDTO, 0, len(rows))
	for _, row := range rows {
		dto, err := recordToDTO(row)
		if err != nil {
			continue // skip invalid
		}
		items = append(items, dto)
	}

	return &ListSummariesResponse{Summaries: items}, nil
}

func (s *Service) Latest(ctx context.Context, profileID uuid.UUID) (*SummaryDTO, error) {
	if profileID == uuid.Nil {
		return nil, ErrInvalidRequest
	}

	row, err := s.storage.GetLatestSummary(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	dto, err := recordToDTO(*row)
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func recordToDTO(row storage.SummaryRecord) (SummaryDTO, error) {
	var result insights.SummaryResult
	if err := json.Unmarshal(row.Payload, &result); err != nil {
		return SummaryDTO{}, fmt.Errorf("decode summary %s: %w", row.ID, err)
	}
	return SummaryDTO{
		ID:        row.ID,
		ProfileID: row.ProfileID,
		Date:      row.Date,
		CreatedAt: row.CreatedAt,
		Summary:   result,
	}, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
