package shortener

import "time"

// Code represents a short URL code.
type Code string

// URLHash represents a hash of a normalized URL.
type URLHash string

// ShortURL represents a shortened URL entity.
type ShortURL struct {
	Code        Code
	OriginalURL string
	URLHash     URLHash // empty for token strategy, populated for hash strategy
	CreatedAt   time.Time
	ExpiresAt   *time.Time // nil means the short URL never expires
	DeletedAt   *time.Time // set by soft deletion; deleted URLs resolve as not found
	Clicks      int64
}

// Expired reports whether the short URL has expired at time t.
func (u *ShortURL) Expired(t time.Time) bool {
	return u.ExpiresAt != nil && !u.ExpiresAt.After(t)
}
