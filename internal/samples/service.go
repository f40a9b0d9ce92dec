package samples

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// MaxBatchSize ограничивает число замеров в одном запросе
const MaxBatchSize = 366

var (
	ErrInvalidProfile = errors.New("invalid profile id")
	ErrInvalidDate    = errors.New("invalid date format")
	ErrInvalidRange   = errors.New("invalid date range")
	ErrInvalidScore   = errors.New("score out of range")
	ErrEmptyFeatures  = errors.New("sample has no features")
	ErrEmptyBatch     = errors.New("no samples in request")
	ErrBatchTooLarge  = errors.New("too many samples in request")
	ErrSampleNotFound = errors.New("sample not found")
)

// Service содержит бизнес-логику замеров
type Service struct {
	storage storage.SamplesStorage
}

// NewService создаёт новый сервис
func NewService(st storage.SamplesStorage) *Service {
	return &Service{storage: st}
}

// Sync валидирует и сохраняет батч замеров. Батч сохраняется только если
// все замеры валидны.
func (s *Service) Sync(ctx context.Context, req SyncSamplesRequest) (*SyncSamplesResponse, error) {
	if req.ProfileID == uuid.Nil {
		return nil, ErrInvalidProfile
	}
	if len(req.Samples) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(req.Samples) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	for i := range req.Samples {
		if err := ValidateSample(req.Samples[i]); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
	}

	resp := &SyncSamplesResponse{Status: "ok"}
	for _, sample := range req.Samples {
		payload, err := json.Marshal(sample)
		if err != nil {
			return nil, err
		}

		if err := s.storage.UpsertSample(ctx, req.ProfileID, sample.Date, payload); err != nil {
			return nil, err
		}
		resp.Upserted++
	}

	return resp, nil
}

// List возвращает замеры за период [from, to] по возрастанию даты
func (s *Service) List(ctx context.Context, profileID uuid.UUID, from, to string) ([]insights.FeatureSample, error) {
	if err := validateDate(from); err != nil {
		return nil, err
	}
	if err := validateDate(to); err != nil {
		return nil, err
	}
	if from > to {
		return nil, ErrInvalidRange
	}

	return s.load(ctx, profileID, from, to)
}

// Get возвращает замер за конкретный день
func (s *Service) Get(ctx context.Context, profileID uuid.UUID, date string) (*insights.FeatureSample, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	items, err := s.load(ctx, profileID, date, date)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrSampleNotFound
	}
	return &items[0], nil
}

// History возвращает замеры за окно [before-days, before) по возрастанию даты
func (s *Service) History(ctx context.Context, profileID uuid.UUID, before string, days int) ([]insights.FeatureSample, error) {
	end, err := time.Parse(dateLayout, before)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if days <= 0 {
		return []insights.FeatureSample{}, nil
	}

	from := end.AddDate(0, 0, -days).Format(dateLayout)
	to := end.AddDate(0, 0, -1).Format(dateLayout)
	return s.load(ctx, profileID, from, to)
}

func (s *Service) load(ctx context.Context, profileID uuid.UUID, from, to string) ([]insights.FeatureSample, error) {
	rows, err := s.storage.ListSamples(ctx, profileID, from, to)
	if err != nil {
		return nil, err
	}

	items := make([]insights.FeatureSample, 0, len(rows))
	for _, row := range rows {
		var sample insights.FeatureSample
		if err := json.Unmarshal(row.Payload, &sample); err != nil {
			continue // skip invalid
		}
		sample.Date = row.Date
		items = append(items, sample)
	}

	return items, nil
}

// ValidateSample проверяет дату, диапазон оценок и наличие признаков
func ValidateSample(sample insights.FeatureSample) error {
	if err := validateDate(sample.Date); err != nil {
		return err
	}
	if len(sample.Features) == 0 {
		return ErrEmptyFeatures
	}
	for name, score := range sample.Features {
		if name == "" {
			return ErrEmptyFeatures
		}
		if !inRange(score) {
			return fmt.Errorf("%w: %s=%v", ErrInvalidScore, name, score)
		}
	}
	if !inRange(sample.SleepScore) {
		return fmt.Errorf("%w: sleep_score=%v", ErrInvalidScore, sample.SleepScore)
	}
	if !inRange(sample.SkinHealthScore) {
		return fmt.Errorf("%w: skin_health_score=%v", ErrInvalidScore, sample.SkinHealthScore)
	}
	return nil
}

func inRange(score float64) bool {
	return score >= 0 && score <= 100
}

func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}
