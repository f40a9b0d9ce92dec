package postgres

import (
	"context"

	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSamplesStorage: Postgres реализация SamplesStorage
type PostgresSamplesStorage struct {
	pool *pgxpool.Pool
}

// NewSamplesStorage создаёт PostgresSamplesStorage
func NewSamplesStorage(pool *pgxpool.Pool) *PostgresSamplesStorage {
	return &PostgresSamplesStorage{pool: pool}
}

func (p *PostgresSamplesStorage) UpsertSample(ctx context.Context, profileID uuid.UUID, date string, payload []byte) error {
	query := `
		INSERT INTO skin_samples (profile_id, date, payload, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (profile_id, date)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	_, err := p.pool.Exec(ctx, query, profileID, date, payload)
	return err
}

func (p *PostgresSamplesStorage) ListSamples(ctx context.Context, profileID uuid.UUID, from, to string) ([]storage.SampleRow, error) {
	query := `
		SELECT profile_id, date, payload, created_at, updated_at
		FROM skin_samples
		WHERE profile_id = $1
		  AND ($2 = '' OR date >= $2)
		  AND ($3 = '' OR date <= $3)
		ORDER BY date ASC
	`

	rows, err := p.pool.Query(ctx, query, profileID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []storage.SampleRow
	for rows.Next() {
		var row storage.SampleRow
		err := rows.Scan(&row.ProfileID, &row.Date, &row.Payload, &row.CreatedAt, &row.UpdatedAt)
		if err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
