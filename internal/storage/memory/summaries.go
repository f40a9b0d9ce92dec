package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
)

// SummariesMemoryStorage: in-memory хранилище сводок
type SummariesMemoryStorage struct {
	mu        sync.RWMutex
	summaries map[uuid.UUID][]storage.SummaryRecord // key: profileID, в порядке вставки
}

// NewSummariesStorage создаёт SummariesMemoryStorage
func NewSummariesStorage() *SummariesMemoryStorage {
	return &SummariesMemoryStorage{
		summaries: make(map[uuid.UUID][]storage.SummaryRecord),
	}
}

func (m *SummariesMemoryStorage) InsertSummary(ctx context.Context, summary *storage.SummaryRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now()
	}

	m.summaries[summary.ProfileID] = append(m.summaries[summary.ProfileID], *summary)
	return nil
}

func (m *SummariesMemoryStorage) ListSummaries(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.SummaryRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	items := m.summaries[profileID]
	results := make([]storage.SummaryRecord, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		results = append(results, items[i])
	}

	// Новые первыми; при равном времени позже вставленные идут раньше
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (m *SummariesMemoryStorage) GetLatestSummary(ctx context.Context, profileID uuid.UUID) (*storage.SummaryRecord, error) {
	items, err := m.ListSummaries(ctx, profileID, 1)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, storage.ErrNotFound
	}
	return &items[0], nil
}
