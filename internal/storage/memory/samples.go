package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
)

// SamplesMemoryStorage: in-memory хранилище замеров
type SamplesMemoryStorage struct {
	mu      sync.RWMutex
	samples map[string]storage.SampleRow // key: profileID:date
}

// NewSamplesStorage создаёт SamplesMemoryStorage
func NewSamplesStorage() *SamplesMemoryStorage {
	return &SamplesMemoryStorage{
		samples: make(map[string]storage.SampleRow),
	}
}

func (m *SamplesMemoryStorage) UpsertSample(ctx context.Context, profileID uuid.UUID, date string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := profileID.String() + ":" + date
	now := time.Now()

	row, exists := m.samples[key]
	if !exists {
		row = storage.SampleRow{
			ProfileID: profileID,
			Date:      date,
			CreatedAt: now,
		}
	}
	row.Payload = append([]byte(nil), payload...)
	row.UpdatedAt = now
	m.samples[key] = row

	return nil
}

func (m *SamplesMemoryStorage) ListSamples(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SampleRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var results []storage.SampleRow
	for _, row := range m.samples {
		if row.ProfileID != profileID {
			continue
		}
		if from != "" && row.Date < from {
			continue
		}
		if to != "" && row.Date > to {
			continue
		}
		results = append(results, row)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Date < results[j].Date
	})

	return results, nil
}
