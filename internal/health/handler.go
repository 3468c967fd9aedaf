package health

import (
	"context"

	"github.com/acbharath14/linkeshortenerproject/internal/api"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker defines the interface for checking service health.
type Checker interface {
	Ping(ctx context.Context) error
}

// RedisChecker adapts redis.Client to Checker interface.
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis health checker.
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Ping checks Redis connectivity.
func (r *RedisChecker) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// PostgresChecker adapts pgxpool.Pool to Checker interface.
type PostgresChecker struct {
	pool *pgxpool.Pool
}

// NewPostgresChecker creates a new PostgreSQL health checker.
func NewPostgresChecker(pool *pgxpool.Pool) *PostgresChecker {
	return &PostgresChecker{pool: pool}
}

// Ping checks PostgreSQL connectivity.
func (p *PostgresChecker) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Handler handles health check operations.
type Handler struct {
	checks map[string]Checker
}

// NewHandler creates a health handler over named dependency checkers.
func NewHandler(checks map[string]Checker) *Handler {
	return &Handler{checks: checks}
}

// Status is the health payload: overall status plus per-dependency detail.
type Status struct {
	Status string            `doc:"ok or degraded"              json:"status"`
	Checks map[string]string `doc:"Per-dependency health state" json:"checks,omitempty"`
}

// Response is the response for health check endpoint.
type Response struct {
	Body api.Envelope[Status]
}

// Check pings every registered dependency. The endpoint itself always
// answers 200; degradation is reported in the body.
func (h *Handler) Check(ctx context.Context, _ *struct{}) (*Response, error) {
	status := Status{
		Status: "ok",
		Checks: make(map[string]string, len(h.checks)),
	}

	for name, checker := range h.checks {
		if err := checker.Ping(ctx); err != nil {
			status.Checks[name] = "unhealthy"
			status.Status = "degraded"
		} else {
			status.Checks[name] = "healthy"
		}
	}

	return &Response{Body: api.OK(status)}, nil
}
