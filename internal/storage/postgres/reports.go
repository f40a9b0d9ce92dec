package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresReportsStorage: метаданные отчётов в таблице skin_reports.
// Порядок колонок совпадает с полями storage.ReportMeta.
type PostgresReportsStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresReportsStorage(pool *pgxpool.Pool) *PostgresReportsStorage {
	return &PostgresReportsStorage{pool: pool}
}

const reportColumns = `id, profile_id, format, from_date, to_date, object_key, size_bytes, status, error, created_at, updated_at`

func (s *PostgresReportsStorage) CreateReport(ctx context.Context, report *storage.ReportMeta) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}

	const query = `
		INSERT INTO skin_reports (id, profile_id, format, from_date, to_date, object_key, size_bytes, status, error)
		VALUES (@id, @profile_id, @format, @from_date, @to_date, @object_key, @size_bytes, @status, @error)
		RETURNING created_at, updated_at
	`
	args := pgx.NamedArgs{
		"id":         report.ID,
		"profile_id": report.ProfileID,
		"format":     report.Format,
		"from_date":  report.FromDate,
		"to_date":    report.ToDate,
		"object_key": report.ObjectKey,
		"size_bytes": report.SizeBytes,
		"status":     report.Status,
		"error":      report.Error,
	}

	if err := s.pool.QueryRow(ctx, query, args).Scan(&report.CreatedAt, &report.UpdatedAt); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *PostgresReportsStorage) GetReport(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+reportColumns+` FROM skin_reports WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}

	report, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByPos[storage.ReportMeta])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

// ListReports: новые первыми; limit <= 0 снимает ограничение (LIMIT NULL)
func (s *PostgresReportsStorage) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]storage.ReportMeta, error) {
	const query = `
		SELECT ` + reportColumns + `
		FROM skin_reports
		WHERE profile_id = $1
		ORDER BY created_at DESC, id
		LIMIT NULLIF($2, 0) OFFSET $3
	`

	rows, err := s.pool.Query(ctx, query, profileID, max(limit, 0), max(offset, 0))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	reports, err := pgx.CollectRows(rows, pgx.RowToStructByPos[storage.ReportMeta])
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	if reports == nil {
		reports = []storage.ReportMeta{}
	}
	return reports, nil
}

func (s *PostgresReportsStorage) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM skin_reports WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
