package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/skin-hub/internal/insights"
	"github.com/fdg312/skin-hub/internal/samples"
	"github.com/google/uuid"
)

const (
	dateLayout = "2006-01-02"

	DefaultDays       = 30
	DefaultWeeklyDays = 7
	MaxDays           = 365
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidDays    = errors.New("invalid days")
	ErrInvalidDate    = errors.New("invalid date format")
)

// SampleLister returns the samples of a profile in [from, to], ascending.
type SampleLister interface {
	List(ctx context.Context, profileID uuid.UUID, from, to string) ([]insights.FeatureSample, error)
}

// Service строит аналитические отчёты поверх сохранённых замеров
type Service struct {
	samples     SampleLister
	correlation insights.CorrelationAnalyzer
	weekly      insights.WeeklyAnalyzer
	now         func() time.Time
}

func NewService(samples SampleLister, catalog *insights.Catalog) *Service {
	if catalog == nil {
		catalog = insights.DefaultCatalog()
	}
	return &Service{
		samples:     samples,
		correlation: insights.NewCorrelationAnalyzer(catalog),
		weekly:      insights.NewWeeklyAnalyzer(catalog),
		now:         time.Now,
	}
}

// Statistics возвращает средние, лучшие значения и тренды оценок за окно
func (s *Service) Statistics(ctx context.Context, q Query) (*StatisticsResponse, error) {
	w, items, err := s.load(ctx, q, DefaultDays)
	if err != nil {
		return nil, err
	}
	return &StatisticsResponse{Window: w, ProfileStatistics: insights.Statistics(items)}, nil
}

// Effectiveness оценивает каждый продукт из заметок о рутине
func (s *Service) Effectiveness(ctx context.Context, q Query) (*EffectivenessResponse, error) {
	w, items, err := s.load(ctx, q, DefaultDays)
	if err != nil {
		return nil, err
	}
	return &EffectivenessResponse{Window: w, RoutineAnalysis: insights.AnalyzeRoutine(items)}, nil
}

// Correlations связывает изменения признаков с продуктами
func (s *Service) Correlations(ctx context.Context, q Query) (*CorrelationsResponse, error) {
	w, items, err := s.load(ctx, q, DefaultDays)
	if err != nil {
		return nil, err
	}
	return &CorrelationsResponse{Window: w, CorrelationReport: s.correlation.Analyze(items)}, nil
}

// Weekly возвращает недельный разбор (по умолчанию последние 7 дней)
func (s *Service) Weekly(ctx context.Context, q Query) (*WeeklyResponse, error) {
	w, items, err := s.load(ctx, q, DefaultWeeklyDays)
	if err != nil {
		return nil, err
	}
	return &WeeklyResponse{Window: w, WeeklyAnalysis: s.weekly.Analyze(items)}, nil
}

func (s *Service) load(ctx context.Context, q Query, defaultDays int) (Window, []insights.FeatureSample, error) {
	w, err := s.window(q, defaultDays)
	if err != nil {
		return Window{}, nil, err
	}

	items, err := s.samples.List(ctx, w.ProfileID, w.From, w.To)
	if errors.Is(err, samples.ErrInvalidDate) || errors.Is(err, samples.ErrInvalidRange) {
		return Window{}, nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}
	if err != nil {
		return Window{}, nil, fmt.Errorf("load samples: %w", err)
	}
	return w, items, nil
}

func (s *Service) window(q Query, defaultDays int) (Window, error) {
	if q.ProfileID == uuid.Nil {
		return Window{}, ErrInvalidRequest
	}

	days := q.Days
	if days == 0 {
		days = defaultDays
	}
	if days < 1 || days > MaxDays {
		return Window{}, ErrInvalidDays
	}

	end := s.now().UTC()
	if q.To != "" {
		parsed, err := time.Parse(dateLayout, q.To)
		if err != nil {
			return Window{}, ErrInvalidDate
		}
		end = parsed
	}

	return Window{
		ProfileID: q.ProfileID,
		From:      end.AddDate(0, 0, -(days - 1)).Format(dateLayout),
		To:        end.Format(dateLayout),
		Days:      days,
	}, nil
}
