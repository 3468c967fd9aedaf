package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RESTCounter is a ratelimit.Counter backed by an HTTP counter service
// exposing Redis-style increment and expire commands as GET endpoints:
//
//	GET <base>/incr/<key>          -> {"result": <count>}
//	GET <base>/expire/<key>/<ttl>  -> {"result": <0|1>}
//
// Both calls are authenticated with a bearer token.
type RESTCounter struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewRESTCounter creates a counter client for the given endpoint.
func NewRESTCounter(baseURL, token string) *RESTCounter {
	return &RESTCounter{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		client:  &http.Client{},
	}
}

// Incr atomically increments the counter at key and returns the new value.
func (c *RESTCounter) Incr(ctx context.Context, key string) (int64, error) {
	return c.call(ctx, fmt.Sprintf("%s/incr/%s", c.baseURL, url.PathEscape(key)))
}

// Expire sets a time-to-live on key, rounded down to whole seconds.
func (c *RESTCounter) Expire(ctx context.Context, key string, ttl time.Duration) error {
	_, err := c.call(ctx, fmt.Sprintf("%s/expire/%s/%d",
		c.baseURL, url.PathEscape(key), int64(ttl.Seconds())))

	return err
}

func (c *RESTCounter) call(ctx context.Context, endpoint string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("counter request failed: %s", resp.Status)
	}

	var body struct {
		Result int64 `json:"result"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, fmt.Errorf("decode counter response: %w", err)
	}

	return body.Result, nil
}
