package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
)

// ReportsMemoryStorage: in-memory метаданные отчётов с индексом по профилю
type ReportsMemoryStorage struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]storage.ReportMeta
	byProfile map[uuid.UUID][]uuid.UUID
	now       func() time.Time
}

func NewReportsMemoryStorage() *ReportsMemoryStorage {
	return &ReportsMemoryStorage{
		byID:      make(map[uuid.UUID]storage.ReportMeta),
		byProfile: make(map[uuid.UUID][]uuid.UUID),
		now:       time.Now,
	}
}

// CreateReport сохраняет копию метаданных и проставляет ID и время
func (s *ReportsMemoryStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if _, exists := s.byID[report.ID]; !exists {
		s.byProfile[report.ProfileID] = append(s.byProfile[report.ProfileID], report.ID)
	}

	report.CreatedAt = s.now()
	report.UpdatedAt = report.CreatedAt
	s.byID[report.ID] = *report
	return nil
}

func (s *ReportsMemoryStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.byID[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &report, nil
}

// ListReports: новые первыми; limit <= 0 отдаёт всё после offset
func (s *ReportsMemoryStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	s.mu.RLock()
	ids := s.byProfile[profileID]
	out := make([]storage.ReportMeta, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	s.mu.RUnlock()

	// ids хранятся в порядке вставки: разворачиваем, чтобы при равном времени
	// более поздний отчёт шёл первым
	slices.Reverse(out)
	slices.SortStableFunc(out, func(a, b storage.ReportMeta) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	offset = max(offset, 0)
	if offset >= len(out) {
		return []storage.ReportMeta{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *ReportsMemoryStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.byID[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.byID, id)
	s.byProfile[report.ProfileID] = slices.DeleteFunc(s.byProfile[report.ProfileID], func(other uuid.UUID) bool {
		return other == id
	})
	return nil
}
