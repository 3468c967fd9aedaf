package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/acbharath14/linkeshortenerproject/internal/analytics"
	"github.com/acbharath14/linkeshortenerproject/internal/api"
	"github.com/acbharath14/linkeshortenerproject/internal/messaging"
	"github.com/acbharath14/linkeshortenerproject/internal/shortener"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// URLHandler handles URL shortening operations.
type URLHandler struct {
	strategies         map[Strategy]shortener.Strategy
	store              shortener.Repository
	baseURL            string
	defaultStrategy    Strategy
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler with injected strategies.
func NewURLHandler(
	store shortener.Repository,
	baseURL string,
	strategies map[Strategy]shortener.Strategy,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		strategies:         strategies,
		store:              store,
		baseURL:            baseURL,
		defaultStrategy:    StrategyToken,
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		logger:             logger,
	}
}

type requestMetaKey struct{}

// RequestMeta holds HTTP request metadata for analytics.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
	Referrer  string
}

// ContextWithRequestMeta adds request metadata to context.
func ContextWithRequestMeta(ctx context.Context, meta RequestMeta) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, meta)
}

// RequestMetaFromContext extracts request metadata from context.
func RequestMetaFromContext(ctx context.Context) RequestMeta {
	if v, ok := ctx.Value(requestMetaKey{}).(RequestMeta); ok {
		return v
	}

	return RequestMeta{}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	strategyName := req.Body.Strategy
	if strategyName == "" {
		strategyName = h.defaultStrategy
	}

	strategy, ok := h.strategies[strategyName]
	if !ok {
		return nil, huma.Error400BadRequest("invalid strategy: must be 'token' or 'hash'")
	}

	var expiresAt *time.Time

	if req.Body.ExpiresIn > 0 {
		t := time.Now().Add(time.Duration(req.Body.ExpiresIn) * time.Second)
		expiresAt = &t
	}

	shortURL, err := strategy.Shorten(ctx, req.Body.URL, expiresAt)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to save url")
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLCreatedEvent{
		Code:        string(shortURL.Code),
		OriginalURL: shortURL.OriginalURL,
		URLHash:     string(shortURL.URLHash),
		Strategy:    string(strategyName),
		CreatedAt:   shortURL.CreatedAt,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishURLCreated(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	fullShortURL := fmt.Sprintf("%s/%s", h.baseURL, shortURL.Code)

	resp := &CreateShortURLResponse{
		Body: api.OK(CreatedURL{
			Code:        string(shortURL.Code),
			ShortURL:    fullShortURL,
			OriginalURL: shortURL.OriginalURL,
			ExpiresAt:   shortURL.ExpiresAt,
		}),
	}
	resp.Headers.Location = fullShortURL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	shortURL, err := h.getLiveURL(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, err
	}

	meta := RequestMetaFromContext(ctx)
	event := &analytics.URLAccessedEvent{
		Code:       req.Code,
		AccessedAt: time.Now(),
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err = h.publishURLAccessed(ctx, event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("code", event.Code),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = shortURL.OriginalURL

	return resp, nil
}

func (h *URLHandler) GetURLStats(ctx context.Context, req *CodeRequest) (*GetURLStatsResponse, error) {
	shortURL, err := h.getLiveURL(ctx, shortener.Code(req.Code))
	if err != nil {
		return nil, err
	}

	return &GetURLStatsResponse{
		Body: api.OK(URLStats{
			Code:        string(shortURL.Code),
			OriginalURL: shortURL.OriginalURL,
			Clicks:      shortURL.Clicks,
			CreatedAt:   shortURL.CreatedAt,
			ExpiresAt:   shortURL.ExpiresAt,
		}),
	}, nil
}

func (h *URLHandler) DeleteURL(ctx context.Context, req *CodeRequest) (*DeleteURLResponse, error) {
	err := h.store.SoftDelete(ctx, shortener.Code(req.Code))
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete url")
	}

	return &DeleteURLResponse{
		Body: api.OK(DeletedURL{Code: req.Code, Deleted: true}),
	}, nil
}

// getLiveURL loads a short URL and maps absence and expiry to API errors.
func (h *URLHandler) getLiveURL(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	shortURL, err := h.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, shortener.ErrNotFound) {
			return nil, huma.Error404NotFound("short url not found")
		}

		return nil, huma.Error500InternalServerError("failed to get url")
	}

	if shortURL.Expired(time.Now()) {
		return nil, huma.Error410Gone("short url expired",
			api.Coded(shortener.ErrExpired, "URL_EXPIRED"))
	}

	return shortURL, nil
}
