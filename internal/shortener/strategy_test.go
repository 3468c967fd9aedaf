package shortener_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/acbharath14/linkeshortenerproject/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store error")

// fakeRepo is a minimal in-memory Repository for strategy tests.
type fakeRepo struct {
	byCode  map[shortener.Code]*shortener.ShortURL
	byHash  map[shortener.URLHash]*shortener.ShortURL
	saveErr error
	getErr  error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byCode: make(map[shortener.Code]*shortener.ShortURL),
		byHash: make(map[shortener.URLHash]*shortener.ShortURL),
	}
}

func (f *fakeRepo) Save(_ context.Context, u *shortener.ShortURL) error {
	if f.saveErr != nil {
		return f.saveErr
	}

	f.byCode[u.Code] = u

	if u.URLHash != "" {
		f.byHash[u.URLHash] = u
	}

	return nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	u, ok := f.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return u, nil
}

func (f *fakeRepo) GetByHash(_ context.Context, hash shortener.URLHash) (*shortener.ShortURL, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}

	u, ok := f.byHash[hash]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return u, nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, code shortener.Code) error {
	if _, ok := f.byCode[code]; !ok {
		return shortener.ErrNotFound
	}

	delete(f.byCode, code)

	return nil
}

func (f *fakeRepo) IncrementClicks(_ context.Context, code shortener.Code) error {
	if u, ok := f.byCode[code]; ok {
		u.Clicks++
	}

	return nil
}

func sequentialGenerator() shortener.CodeGenerator {
	n := 0

	return func() string {
		n++

		return fmt.Sprintf("code%d", n)
	}
}

func TestTokenStrategy(t *testing.T) {
	t.Run("generates a new code per call", func(t *testing.T) {
		repo := newFakeRepo()
		strategy := shortener.NewTokenStrategy(repo, sequentialGenerator())

		first, err := strategy.Shorten(context.Background(), "https://example.com", nil)
		require.NoError(t, err)

		second, err := strategy.Shorten(context.Background(), "https://example.com", nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.Code, second.Code)
		assert.Empty(t, first.URLHash, "token strategy does not hash")
	})

	t.Run("carries expiry through to the entity", func(t *testing.T) {
		repo := newFakeRepo()
		strategy := shortener.NewTokenStrategy(repo, sequentialGenerator())

		expiresAt := time.Now().Add(time.Hour)

		created, err := strategy.Shorten(context.Background(), "https://example.com", &expiresAt)

		require.NoError(t, err)
		require.NotNil(t, created.ExpiresAt)
		assert.Equal(t, expiresAt, *created.ExpiresAt)
	})

	t.Run("propagates save errors", func(t *testing.T) {
		repo := newFakeRepo()
		repo.saveErr = errStore
		strategy := shortener.NewTokenStrategy(repo, sequentialGenerator())

		_, err := strategy.Shorten(context.Background(), "https://example.com", nil)

		assert.ErrorIs(t, err, errStore)
	})
}

func TestHashStrategy(t *testing.T) {
	t.Run("deduplicates identical urls", func(t *testing.T) {
		repo := newFakeRepo()
		strategy := shortener.NewHashStrategy(repo, sequentialGenerator())

		first, err := strategy.Shorten(context.Background(), "https://example.com/path", nil)
		require.NoError(t, err)

		second, err := strategy.Shorten(context.Background(), "https://example.com/path", nil)
		require.NoError(t, err)

		assert.Equal(t, first.Code, second.Code)
		assert.NotEmpty(t, first.URLHash)
	})

	t.Run("deduplicates urls that normalize identically", func(t *testing.T) {
		repo := newFakeRepo()
		strategy := shortener.NewHashStrategy(repo, sequentialGenerator())

		first, err := strategy.Shorten(context.Background(), "https://example.com/path", nil)
		require.NoError(t, err)

		second, err := strategy.Shorten(context.Background(), "HTTPS://EXAMPLE.COM:443/path/", nil)
		require.NoError(t, err)

		assert.Equal(t, first.Code, second.Code)
	})

	t.Run("distinct urls get distinct codes", func(t *testing.T) {
		repo := newFakeRepo()
		strategy := shortener.NewHashStrategy(repo, sequentialGenerator())

		first, err := strategy.Shorten(context.Background(), "https://example.com/a", nil)
		require.NoError(t, err)

		second, err := strategy.Shorten(context.Background(), "https://example.com/b", nil)
		require.NoError(t, err)

		assert.NotEqual(t, first.Code, second.Code)
	})

	t.Run("rejects unparseable urls", func(t *testing.T) {
		repo := newFakeRepo()
		strategy := shortener.NewHashStrategy(repo, sequentialGenerator())

		_, err := strategy.Shorten(context.Background(), "://invalid", nil)

		assert.Error(t, err)
	})

	t.Run("propagates lookup errors other than not found", func(t *testing.T) {
		repo := newFakeRepo()
		repo.getErr = errStore
		strategy := shortener.NewHashStrategy(repo, sequentialGenerator())

		_, err := strategy.Shorten(context.Background(), "https://example.com", nil)

		assert.ErrorIs(t, err, errStore)
	})
}

func TestShortURL_Expired(t *testing.T) {
	now := time.Now()

	t.Run("nil expiry never expires", func(t *testing.T) {
		u := &shortener.ShortURL{}

		assert.False(t, u.Expired(now))
	})

	t.Run("future expiry is live", func(t *testing.T) {
		expiresAt := now.Add(time.Minute)
		u := &shortener.ShortURL{ExpiresAt: &expiresAt}

		assert.False(t, u.Expired(now))
	})

	t.Run("past expiry is expired", func(t *testing.T) {
		expiresAt := now.Add(-time.Minute)
		u := &shortener.ShortURL{ExpiresAt: &expiresAt}

		assert.True(t, u.Expired(now))
	})
}
