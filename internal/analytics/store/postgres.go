package store

import (
	"context"

	"github.com/acbharath14/linkeshortenerproject/internal/analytics"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres persists analytics events to PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a PostgreSQL-backed analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) SaveURLCreated(ctx context.Context, event *analytics.URLCreatedEvent) error {
	query := `
		INSERT INTO url_created_events (code, original_url, url_hash, strategy, created_at, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.OriginalURL,
		event.URLHash,
		event.Strategy,
		event.CreatedAt,
		event.ClientIP,
		event.UserAgent,
	)

	return err
}

func (p *Postgres) SaveURLAccessed(ctx context.Context, event *analytics.URLAccessedEvent) error {
	query := `
		INSERT INTO url_access_events (code, accessed_at, client_ip, user_agent, referrer)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.AccessedAt,
		event.ClientIP,
		event.UserAgent,
		event.Referrer,
	)

	return err
}
