package store

import (
	"context"
	"strconv"
	"time"

	"github.com/acbharath14/linkeshortenerproject/internal/shortener"
	"github.com/redis/go-redis/v9"
)

// RedisCacheRepository wraps a Repository with Redis caching for reads.
// Click counts served from cache may lag the store by up to the TTL.
type RedisCacheRepository struct {
	store   shortener.Repository
	client  *redis.Client
	prefix  string
	hashKey string
	ttl     time.Duration
}

// NewRedisCacheRepository creates a new Redis-cached repository decorator.
func NewRedisCacheRepository(
	store shortener.Repository, client *redis.Client, ttl time.Duration,
) *RedisCacheRepository {
	return &RedisCacheRepository{
		store:   store,
		client:  client,
		prefix:  "url:",
		hashKey: "url_hashes",
		ttl:     ttl,
	}
}

// Save stores a short URL in the underlying store and updates the cache.
func (r *RedisCacheRepository) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := r.store.Save(ctx, shortURL); err != nil {
		return err
	}

	// Write-through: update cache after successful save
	r.cacheURL(ctx, shortURL)

	return nil
}

// GetByCode retrieves a short URL by its code, checking cache first.
func (r *RedisCacheRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if url, err := r.getFromCache(ctx, code); err == nil {
		return url, nil
	}

	url, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cacheURL(ctx, url)

	return url, nil
}

// GetByHash retrieves a short URL by its hash, checking cache first.
func (r *RedisCacheRepository) GetByHash(ctx context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	code, err := r.client.HGet(ctx, r.hashKey, string(hash)).Result()
	if err == nil {
		if url, err := r.getFromCache(ctx, shortener.Code(code)); err == nil {
			return url, nil
		}
	}

	url, err := r.store.GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	r.cacheURL(ctx, url)

	return url, nil
}

// SoftDelete deletes in the underlying store and evicts the cache entry so
// the deleted URL stops resolving immediately.
func (r *RedisCacheRepository) SoftDelete(ctx context.Context, code shortener.Code) error {
	if err := r.store.SoftDelete(ctx, code); err != nil {
		return err
	}

	_, _ = r.client.Del(ctx, r.prefix+string(code)).Result()

	return nil
}

// IncrementClicks passes through to the underlying store; the cached entry
// keeps its old count until it expires.
func (r *RedisCacheRepository) IncrementClicks(ctx context.Context, code shortener.Code) error {
	return r.store.IncrementClicks(ctx, code)
}

func (r *RedisCacheRepository) getFromCache(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	result, err := r.client.HGetAll(ctx, r.prefix+string(code)).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortener.ErrNotFound
	}

	url := &shortener.ShortURL{
		Code:        shortener.Code(result["code"]),
		OriginalURL: result["original_url"],
		URLHash:     shortener.URLHash(result["url_hash"]),
	}

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			url.CreatedAt = time.Unix(0, nanos)
		}
	}

	if ts, ok := result["expires_at"]; ok && ts != "" {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			expiresAt := time.Unix(0, nanos)
			url.ExpiresAt = &expiresAt
		}
	}

	if clicks, ok := result["clicks"]; ok {
		if n, err := strconv.ParseInt(clicks, 10, 64); err == nil {
			url.Clicks = n
		}
	}

	return url, nil
}

func (r *RedisCacheRepository) cacheURL(ctx context.Context, url *shortener.ShortURL) {
	pipe := r.client.Pipeline()
	key := r.prefix + string(url.Code)

	fields := map[string]interface{}{
		"code":         string(url.Code),
		"original_url": url.OriginalURL,
		"url_hash":     string(url.URLHash),
		"created_at":   url.CreatedAt.UnixNano(),
		"clicks":       url.Clicks,
	}

	if url.ExpiresAt != nil {
		fields["expires_at"] = url.ExpiresAt.UnixNano()
	}

	pipe.HSet(ctx, key, fields)

	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}

	// Index by hash if present
	if url.URLHash != "" {
		pipe.HSet(ctx, r.hashKey, string(url.URLHash), string(url.Code))
	}

	_, _ = pipe.Exec(ctx)
}
