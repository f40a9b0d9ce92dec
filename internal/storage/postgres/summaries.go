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

// PostgresSummariesStorage: Postgres реализация SummariesStorage
type PostgresSummariesStorage struct {
	pool *pgxpool.Pool
}

// NewSummariesStorage создаёт PostgresSummariesStorage
func NewSummariesStorage(pool *pgxpool.Pool) *PostgresSummariesStorage {
	return &PostgresSummariesStorage{pool: pool}
}

const summaryColumns = `id, profile_id, date, variant, path, fallback_reason, payload, created_at`

func (p *PostgresSummariesStorage) InsertSummary(ctx context.Context, summary *storage.SummaryRecord) error {
	if summary.ID == uuid.Nil {
		summary.ID = uuid.New()
	}

	query := `
		INSERT INTO skin_summaries (id, profile_id, date, variant, path, fallback_reason, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, NOW()))
		RETURNING created_at
	`

	var createdAt any
	if !summary.CreatedAt.IsZero() {
		createdAt = summary.CreatedAt
	}

	err := p.pool.QueryRow(ctx, query,
		summary.ID,
		summary.ProfileID,
		summary.Date,
		summary.Variant,
		summary.Path,
		summary.FallbackReason,
		summary.Payload,
		createdAt,
	).Scan(&summary.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert summary: %w", err)
	}
	return nil
}

func (p *PostgresSummariesStorage) ListSummaries(ctx context.Context, profileID uuid.UUID, limit int) ([]storage.SummaryRecord, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM skin_summaries
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := p.pool.Query(ctx, query, profileID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}
	defer rows.Close()

	var results []storage.SummaryRecord
	for rows.Next() {
		rec, err := scanSummary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

func (p *PostgresSummariesStorage) GetLatestSummary(ctx context.Context, profileID uuid.UUID) (*storage.SummaryRecord, error) {
	query := `
		SELECT ` + summaryColumns + `
		FROM skin_summaries
		WHERE profile_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	rec, err := scanSummary(p.pool.QueryRow(ctx, query, profileID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest summary: %w", err)
	}
	return rec, nil
}

func scanSummary(row pgx.Row) (*storage.SummaryRecord, error) {
	var rec storage.SummaryRecord
	err := row.Scan(
		&rec.ID,
		&rec.ProfileID,
		&rec.Date,
		&rec.Variant,
		&rec.Path,
		&rec.FallbackReason,
		&rec.Payload,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
