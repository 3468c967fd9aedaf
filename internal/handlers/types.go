package handlers

import (
	"time"

	"github.com/acbharath14/linkeshortenerproject/internal/api"
)

// Strategy names a URL shortening strategy.
type Strategy string

const (
	// StrategyToken always mints a fresh code.
	StrategyToken Strategy = "token"
	// StrategyHash returns the same code for identical URLs.
	StrategyHash Strategy = "hash"
)

// CreateShortURLRequest is the request body for creating a short URL.
type CreateShortURLRequest struct {
	Body struct {
		URL       string   `doc:"The URL to shorten"                    example:"https://example.com/very/long/path" json:"url"`
		Strategy  Strategy `doc:"Shortening strategy"                   enum:"token,hash"                            json:"strategy,omitempty"`
		ExpiresIn int64    `doc:"Seconds until the short URL expires"   example:"3600"                               json:"expiresIn,omitempty" minimum:"1"`
	}
}

// CreatedURL is the success payload for a created short URL.
type CreatedURL struct {
	Code        string     `doc:"The short code"     example:"abc123"                             json:"code"`
	ShortURL    string     `doc:"The full short URL" example:"http://localhost:8888/abc123"       json:"shortUrl"`
	OriginalURL string     `doc:"The original URL"   example:"https://example.com/very/long/path" json:"originalUrl"`
	ExpiresAt   *time.Time `doc:"Expiry timestamp"   json:"expiresAt,omitempty"`
}

// CreateShortURLResponse is the response for a successfully created short URL.
type CreateShortURLResponse struct {
	Headers struct {
		Location string `doc:"The short URL location" header:"Location"`
	}
	Body api.Envelope[CreatedURL]
}

// RedirectRequest is the request for redirecting a short URL.
type RedirectRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// RedirectResponse redirects the client to the original URL.
type RedirectResponse struct {
	Status  int
	Headers struct {
		Location string `doc:"The original URL" header:"Location"`
	}
}

// CodeRequest addresses an existing short URL by code.
type CodeRequest struct {
	Code string `doc:"The short code" example:"abc123" path:"code"`
}

// URLStats is the success payload for short URL statistics.
type URLStats struct {
	Code        string     `doc:"The short code"            json:"code"`
	OriginalURL string     `doc:"The original URL"          json:"originalUrl"`
	Clicks      int64      `doc:"Number of recorded clicks" json:"clicks"`
	CreatedAt   time.Time  `doc:"Creation timestamp"        json:"createdAt"`
	ExpiresAt   *time.Time `doc:"Expiry timestamp"          json:"expiresAt,omitempty"`
}

// GetURLStatsResponse is the response for the stats endpoint.
type GetURLStatsResponse struct {
	Body api.Envelope[URLStats]
}

// DeletedURL is the success payload for a soft-deleted short URL.
type DeletedURL struct {
	Code    string `doc:"The short code" json:"code"`
	Deleted bool   `doc:"Always true"    json:"deleted"`
}

// DeleteURLResponse is the response for the delete endpoint.
type DeleteURLResponse struct {
	Body api.Envelope[DeletedURL]
}
