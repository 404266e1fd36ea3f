package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-news-agent/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLazyPool_DialsOnceAndReusesPool(t *testing.T) {
	var dials int32
	sentinel := &pgxpool.Pool{}
	dial := func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		assert.Equal(t, "primary", dsn)
		return sentinel, nil
	}

	lazy := NewLazyPool("primary", "fallback", dial, discardLogger())
	assert.False(t, lazy.Ready())

	first, err := lazy.Get(context.Background())
	require.NoError(t, err)
	second, err := lazy.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&dials))
	assert.True(t, lazy.Ready())
}

func TestLazyPool_FallsBackToSecondDSN(t *testing.T) {
	sentinel := &pgxpool.Pool{}
	var attempted []string
	dial := func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		attempted = append(attempted, dsn)
		if dsn == "primary" {
			return nil, errors.New("password authentication failed")
		}
		return sentinel, nil
	}

	lazy := NewLazyPool("primary", "fallback", dial, discardLogger())

	pool, err := lazy.Get(context.Background())
	require.NoError(t, err)
	assert.Same(t, sentinel, pool)
	assert.Equal(t, []string{"primary", "fallback"}, attempted)
}

func TestLazyPool_FailureIsSticky(t *testing.T) {
	var dials int32
	dial := func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		return nil, errors.New("connection refused")
	}

	lazy := NewLazyPool("primary", "fallback", dial, discardLogger())

	_, err := lazy.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)

	// Both DSNs were tried exactly once; later calls do not redial.
	_, err = lazy.Get(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&dials))
	assert.False(t, lazy.Ready())
}

func TestLazyPool_EmptyFallbackMakesOneAttempt(t *testing.T) {
	var dials int32
	dial := func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		return nil, errors.New("connection refused")
	}

	lazy := NewLazyPool("primary", "", dial, discardLogger())

	_, err := lazy.Get(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&dials))
}

func TestLazyPool_ConcurrentFirstUseDialsOnce(t *testing.T) {
	var dials int32
	sentinel := &pgxpool.Pool{}
	dial := func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		atomic.AddInt32(&dials, 1)
		return sentinel, nil
	}

	lazy := NewLazyPool("primary", "", dial, discardLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool, err := lazy.Get(context.Background())
			assert.NoError(t, err)
			assert.Same(t, sentinel, pool)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&dials))
}

func TestLazyPool_PingWithoutConnectionIsHealthy(t *testing.T) {
	dial := func(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
		t.Fatal("ping must not force a connection")
		return nil, nil
	}

	lazy := NewLazyPool("primary", "", dial, discardLogger())
	assert.NoError(t, lazy.Ping(context.Background()))
}
