package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookshelf/internal/auth"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/identity"
	"bookshelf/internal/library"
	"bookshelf/internal/platform/openlibrary"
	"bookshelf/internal/platform/supabase"
	"bookshelf/internal/user"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dependencies are the external collaborators the handlers run against.
type dependencies struct {
	provider     identity.Provider
	resolver     identity.Resolver
	profiles     user.Repository
	books        library.Repository
	covers       library.CoverFinder
	coverTimeout time.Duration
	ready        func(context.Context) error
}

type application struct {
	cfg      *config.Config
	logger   *log.Logger
	resolver identity.Resolver
	auth     *auth.HTTPHandler
	books    *library.HTTPHandler
	limiter  *httpx.RateLimitMiddleware
	ready    func(context.Context) error
}

func newApplication(ctx context.Context, cfg *config.Config, logger *log.Logger, deps dependencies) *application {
	return &application{
		cfg:      cfg,
		logger:   logger,
		resolver: deps.resolver,
		auth:     auth.NewHTTPHandler(auth.NewService(deps.provider, deps.profiles)),
		books:    library.NewHTTPHandler(library.NewService(deps.books, libraryOptions(logger, deps)...)),
		limiter:  httpx.NewRateLimitMiddleware(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst),
		ready:    deps.ready,
	}
}

func libraryOptions(logger *log.Logger, deps dependencies) []library.Option {
	opts := []library.Option{library.WithLogger(logger.With("component", "library"))}
	if deps.covers != nil {
		opts = append(opts, library.WithCoverFinder(deps.covers, deps.coverTimeout))
	}
	return opts
}

// buildDependencies wires the Supabase client and the configured store driver.
// The returned cleanup releases any database pool.
func buildDependencies(ctx context.Context, cfg *config.Config, logger *log.Logger) (dependencies, func(), error) {
	client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Supabase.HTTPTimeout)
	gotrue := identity.NewGoTrue(client)

	deps := dependencies{
		provider: gotrue,
		resolver: gotrue,
		ready:    func(context.Context) error { return nil },
	}
	if cfg.Supabase.JWTSecret != "" {
		deps.resolver = identity.NewJWTVerifier(cfg.Supabase.JWTSecret)
		logger.Info("verifying access tokens locally")
	}

	if cfg.Covers.Enabled {
		deps.covers = openlibrary.NewClient(cfg.Covers.UserAgent, cfg.Covers.RPS, cfg.Covers.Timeout)
		deps.coverTimeout = cfg.Covers.Timeout
		logger.Info("cover lookup enabled", "rps", cfg.Covers.RPS)
	}

	switch cfg.Store.Driver {
	case "postgres":
		pool, err := openDB(ctx, cfg.Store.DSN)
		if err != nil {
			return dependencies{}, func() {}, err
		}
		logger.Info("database connection OK", "dsn", redactDSN(cfg.Store.DSN))
		deps.profiles = user.NewPostgresRepo(pool, cfg.Store.Timeout)
		deps.books = library.NewPostgresRepo(pool, cfg.Store.Timeout)
		deps.ready = pool.Ping
		return deps, pool.Close, nil
	default:
		deps.profiles = user.NewPostgRESTRepo(client)
		deps.books = library.NewPostgRESTRepo(client)
		return deps, func() {}, nil
	}
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("cannot ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
