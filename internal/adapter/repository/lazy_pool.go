package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"ai-news-agent/internal/domain"
)

type poolState int

const (
	stateUninitialized poolState = iota
	stateReady
	stateFailed
)

// DialFunc establishes a pool for a DSN. Injected so the lifecycle is
// testable without a database.
type DialFunc func(ctx context.Context, dsn string) (*pgxpool.Pool, error)

// LazyPool defers the store connection until first use. The first attempt
// uses the full-credential DSN; if it fails, one fallback attempt is made
// with the reduced-credential DSN. The outcome is sticky either way: a
// ready pool is reused for the process lifetime, and a failed init returns
// the stored error on every later use. The mutex spans the whole attempt,
// so concurrent first-use dials at most once.
type LazyPool struct {
	mu    sync.Mutex
	state poolState
	pool  *pgxpool.Pool
	err   error

	primaryDSN  string
	fallbackDSN string
	dial        DialFunc
	logger      *slog.Logger
}

// NewLazyPool creates an uninitialized pool handle.
func NewLazyPool(primaryDSN, fallbackDSN string, dial DialFunc, logger *slog.Logger) *LazyPool {
	return &LazyPool{
		primaryDSN:  primaryDSN,
		fallbackDSN: fallbackDSN,
		dial:        dial,
		logger:      logger,
	}
}

// Get returns the connection pool, establishing it on first use.
func (p *LazyPool) Get(ctx context.Context) (*pgxpool.Pool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.state {
	case stateReady:
		return p.pool, nil
	case stateFailed:
		return nil, p.err
	}

	pool, err := p.dial(ctx, p.primaryDSN)
	if err != nil && p.fallbackDSN != "" {
		p.logger.Warn("store_connect_fallback",
			slog.String("error", err.Error()),
		)
		pool, err = p.dial(ctx, p.fallbackDSN)
	}
	if err != nil {
		p.state = stateFailed
		p.err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
		p.logger.Error("store_connect_failed", slog.String("error", err.Error()))
		return nil, p.err
	}

	p.state = stateReady
	p.pool = pool
	p.logger.Info("store_connected")
	return p.pool, nil
}

// Ready reports whether the pool has been successfully initialized.
func (p *LazyPool) Ready() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == stateReady
}

// Ping checks connectivity once the pool is ready. An untouched lazy pool
// counts as healthy; readiness must not force a connection.
func (p *LazyPool) Ping(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateReady {
		return nil
	}
	return p.pool.Ping(ctx)
}

// Close releases the pool if it was ever established.
func (p *LazyPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == stateReady {
		p.pool.Close()
	}
}
