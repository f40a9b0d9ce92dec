package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound возвращается, когда запись не найдена
var ErrNotFound = errors.New("not found")

// Storage: агрегированный интерфейс хранилища приложения
type Storage interface {
	SamplesStorage
	SummariesStorage
	ReportsStorage

	// Close освобождает ресурсы хранилища
	Close() error
}

// SamplesStorage: интерфейс для ежедневных замеров кожи
type SamplesStorage interface {
	// UpsertSample сохраняет замер за день (перезаписывает существующий)
	UpsertSample(ctx context.Context, profileID uuid.UUID, date string, payload []byte) error

	// ListSamples возвращает замеры за период [from, to] по возрастанию даты.
	// Пустая граница означает отсутствие ограничения.
	ListSamples(ctx context.Context, profileID uuid.UUID, from, to string) ([]SampleRow, error)
}

// SampleRow: строка замера
type SampleRow struct {
	ProfileID uuid.UUID
	Date      string // YYYY-MM-DD
	Payload   []byte // JSON insights.FeatureSample
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SummariesStorage: интерфейс для сгенерированных сводок
type SummariesStorage interface {
	// InsertSummary сохраняет сводку, ID и CreatedAt заполняются при пустых значениях
	InsertSummary(ctx context.Context, summary *SummaryRecord) error

	// ListSummaries возвращает сводки профиля, новые первыми
	ListSummaries(ctx context.Context, profileID uuid.UUID, limit int) ([]SummaryRecord, error)

	// GetLatestSummary возвращает последнюю сводку профиля или ErrNotFound
	GetLatestSummary(ctx context.Context, profileID uuid.UUID) (*SummaryRecord, error)
}

// SummaryRecord: сохранённая сводка
type SummaryRecord struct {
	ID             uuid.UUID
	ProfileID      uuid.UUID
	Date           string // дата замера, для которого построена сводка
	Variant        string // "baseline" or "full"
	Path           string // "generative" or "deterministic"
	FallbackReason *string
	Payload        []byte // JSON insights.SummaryResult
	CreatedAt      time.Time
}

// ReportsStorage: интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт метаданные отчёта
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID или ErrNotFound
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов профиля с пагинацией
	ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет метаданные отчёта
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta: метаданные отчёта
type ReportMeta struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	Format    string // "pdf" or "csv"
	FromDate  string // YYYY-MM-DD
	ToDate    string // YYYY-MM-DD
	ObjectKey string // ключ в blob хранилище
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
