package postgres

import (
	"context"

	"github.com/fdg312/skin-hub/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage: Postgres реализация storage.Storage
type PostgresStorage struct {
	*PostgresSamplesStorage
	*PostgresSummariesStorage
	*PostgresReportsStorage

	pool *pgxpool.Pool
}

var _ storage.Storage = (*PostgresStorage)(nil)

// New подключается к базе и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{
		PostgresSamplesStorage:   NewSamplesStorage(pool),
		PostgresSummariesStorage: NewSummariesStorage(pool),
		PostgresReportsStorage:   NewPostgresReportsStorage(pool),
		pool:                     pool,
	}, nil
}

// Ping проверяет доступность базы
func (p *PostgresStorage) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
