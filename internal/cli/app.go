package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/roach88/hackerstories/internal/config"
	"github.com/roach88/hackerstories/internal/engine"
	"github.com/roach88/hackerstories/internal/fetch"
	"github.com/roach88/hackerstories/internal/persist"
	"github.com/roach88/hackerstories/internal/store"
)

// redisKeyPrefix namespaces every key the CLI writes to Redis.
const redisKeyPrefix = "hackerstories:"

// backend is the persistence a command runs against.
type backend struct {
	queries persist.QueryStore

	// log is the SQLite transition log; nil for the other backends.
	log *store.Store

	closers []func() error
}

// openBackend connects to the configured persistence backend.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Persist.Backend {
	case config.BackendSQLite:
		slog.Debug("opening database", "path", cfg.Persist.SQLitePath)
		st, err := store.Open(cfg.Persist.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{queries: st, log: st, closers: []func() error{st.Close}}, nil

	case config.BackendRedis:
		slog.Debug("connecting to redis", "addr", cfg.Persist.RedisAddr)
		rs := persist.NewRedisStore(cfg.Persist.RedisAddr, redisKeyPrefix)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis %s: %w", cfg.Persist.RedisAddr, err)
		}
		return &backend{queries: rs, closers: []func() error{rs.Close}}, nil

	case config.BackendMemory:
		return &backend{queries: persist.NewMemoryStore()}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Persist.Backend)
	}
}

// Close releases the backend's connections.
func (b *backend) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// newFetcher builds the HTTP fetcher from config.
func newFetcher(cfg *config.Config, logger *slog.Logger) (*fetch.HTTPFetcher, error) {
	opts := []fetch.Option{
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout}),
		fetch.WithLogger(logger),
	}
	if cfg.Fetch.RatePerSecond > 0 {
		opts = append(opts, fetch.WithLimiter(rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerSecond), 1)))
	}
	if cfg.Fetch.Strict {
		schema, err := fetch.NewSchema()
		if err != nil {
			return nil, fmt.Errorf("load record schema: %w", err)
		}
		opts = append(opts, fetch.WithValidation(schema))
	}
	return fetch.NewHTTPFetcher(opts...), nil
}

// newSession wires an engine and session over b. The returned session has
// not been started.
func (o *RootOptions) newSession(b *backend) (*engine.Session, error) {
	cfg := o.Config

	fetcher := o.Fetcher
	if fetcher == nil {
		f, err := newFetcher(cfg, o.Logger)
		if err != nil {
			return nil, err
		}
		fetcher = f
	}

	tokens := o.Tokens
	if tokens == nil {
		tokens = engine.UUIDv7Generator{}
	}

	engineOpts := []engine.Option{engine.WithLogger(o.Logger)}
	if b.log != nil {
		engineOpts = append(engineOpts, engine.WithRecorder(b.log))
	}
	eng := engine.New(tokens.Generate(), engineOpts...)

	return engine.NewSession(eng, engine.SessionConfig{
		Fetcher:      fetcher,
		Queries:      b.queries,
		Endpoint:     cfg.ResolvedEndpoint(),
		QueryKey:     cfg.QueryKey,
		DefaultQuery: cfg.DefaultQuery,
		Logger:       o.Logger,
	}), nil
}

// withBackend opens the backend, runs fn and closes the backend.
// Backend failures are command errors.
func (o *RootOptions) withBackend(ctx context.Context, fn func(*backend) error) error {
	b, err := openBackend(ctx, o.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open backend", err)
	}
	defer func() {
		if closeErr := b.Close(); closeErr != nil {
			o.Logger.Error("error closing backend", "error", closeErr)
		}
	}()
	return fn(b)
}
