package shortener

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no live short URL matches the lookup.
	// Soft-deleted URLs resolve to ErrNotFound as well.
	ErrNotFound = errors.New("short url not found")

	// ErrExpired is returned when a short URL exists but its expiry has passed.
	ErrExpired = errors.New("short url expired")
)

// Repository defines the interface for short URL storage.
type Repository interface {
	Save(ctx context.Context, shortURL *ShortURL) error

	// GetByCode retrieves a live short URL by its code. Soft-deleted URLs
	// are treated as absent.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)

	// GetByHash retrieves a live short URL by its normalized-URL hash.
	// Used by the hash strategy for deduplication.
	GetByHash(ctx context.Context, hash URLHash) (*ShortURL, error)

	// SoftDelete marks the short URL as deleted without removing the row.
	// Deleting an already-deleted URL succeeds; an unknown code returns
	// ErrNotFound.
	SoftDelete(ctx context.Context, code Code) error

	// IncrementClicks bumps the click counter for a code. Best effort:
	// unknown codes are ignored.
	IncrementClicks(ctx context.Context, code Code) error
}
