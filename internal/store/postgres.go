package store

import (
	"context"
	"errors"

	"github.com/acbharath14/linkeshortenerproject/internal/shortener"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed URL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (p *PostgresStore) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	query := `
		INSERT INTO short_urls (code, original_url, url_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (code) DO NOTHING
	`

	_, err := p.pool.Exec(ctx, query,
		string(shortURL.Code),
		shortURL.OriginalURL,
		nullableString(shortURL.URLHash),
		shortURL.CreatedAt,
		shortURL.ExpiresAt,
	)

	return err
}

func (p *PostgresStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, url_hash, created_at, expires_at, clicks
		FROM short_urls
		WHERE code = $1 AND deleted_at IS NULL
	`

	return p.queryOne(ctx, query, string(code))
}

func (p *PostgresStore) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	query := `
		SELECT code, original_url, url_hash, created_at, expires_at, clicks
		FROM short_urls
		WHERE url_hash = $1 AND deleted_at IS NULL
	`

	return p.queryOne(ctx, query, string(hash))
}

func (p *PostgresStore) SoftDelete(ctx context.Context, code shortener.Code) error {
	query := `
		UPDATE short_urls
		SET deleted_at = now()
		WHERE code = $1 AND deleted_at IS NULL
	`

	tag, err := p.pool.Exec(ctx, query, string(code))
	if err != nil {
		return err
	}

	if tag.RowsAffected() > 0 {
		return nil
	}

	// Deleting an already-deleted URL is a no-op success; a code that was
	// never created is not found.
	var exists bool

	err = p.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM short_urls WHERE code = $1)`,
		string(code),
	).Scan(&exists)
	if err != nil {
		return err
	}

	if !exists {
		return shortener.ErrNotFound
	}

	return nil
}

func (p *PostgresStore) IncrementClicks(ctx context.Context, code shortener.Code) error {
	query := `
		UPDATE short_urls
		SET clicks = clicks + 1
		WHERE code = $1 AND deleted_at IS NULL
	`

	_, err := p.pool.Exec(ctx, query, string(code))

	return err
}

func (p *PostgresStore) queryOne(ctx context.Context, query, arg string) (*shortener.ShortURL, error) {
	var url shortener.ShortURL

	var urlHash *string

	err := p.pool.QueryRow(ctx, query, arg).Scan(
		&url.Code,
		&url.OriginalURL,
		&urlHash,
		&url.CreatedAt,
		&url.ExpiresAt,
		&url.Clicks,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	if urlHash != nil {
		url.URLHash = shortener.URLHash(*urlHash)
	}

	return &url, nil
}

func nullableString(s shortener.URLHash) *string {
	if s == "" {
		return nil
	}

	str := string(s)

	return &str
}
