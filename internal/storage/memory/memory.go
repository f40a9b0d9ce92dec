package memory

import (
	"github.com/fdg312/skin-hub/internal/storage"
)

// MemoryStorage: in-memory реализация storage.Storage
type MemoryStorage struct {
	*SamplesMemoryStorage
	*SummariesMemoryStorage
	*ReportsMemoryStorage
}

var _ storage.Storage = (*MemoryStorage)(nil)

// New создаёт пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		SamplesMemoryStorage:   NewSamplesStorage(),
		SummariesMemoryStorage: NewSummariesStorage(),
		ReportsMemoryStorage:   NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) Close() error {
	return nil
}
