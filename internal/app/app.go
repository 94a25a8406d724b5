package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/slide-atlas/internal/adapter/assets"
	"github.com/heartmarshall/slide-atlas/internal/adapter/postgres"
	catalogrepo "github.com/heartmarshall/slide-atlas/internal/adapter/postgres/catalog"
	"github.com/heartmarshall/slide-atlas/internal/config"
	"github.com/heartmarshall/slide-atlas/internal/service/catalog"
	"github.com/heartmarshall/slide-atlas/internal/service/sidecar"
	"github.com/heartmarshall/slide-atlas/internal/transport/dataloader"
	"github.com/heartmarshall/slide-atlas/internal/transport/middleware"
	"github.com/heartmarshall/slide-atlas/internal/transport/rest"
)

// App holds the wired dependencies of the HTTP server.
type App struct {
	cfg     *config.Config
	log     *slog.Logger
	pool    *pgxpool.Pool
	store   assets.Store
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New connects to the database and the asset store and builds the HTTP
// handler. Close must be called when done.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	store, err := assets.New(cfg.Assets)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("assets: %w", err)
	}

	a := &App{
		cfg:     cfg,
		log:     logger,
		pool:    pool,
		store:   store,
		limiter: middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval),
	}
	a.handler = a.newHandler()
	return a, nil
}

func (a *App) newHandler() http.Handler {
	repo := catalogrepo.New(a.pool)
	txm := postgres.NewTxManager(a.pool)

	bundles := sidecar.NewService(a.log, a.store, sidecar.Options{
		BundleDir:         a.cfg.Sidecar.BundleDir,
		MaxNarrativeBytes: a.cfg.Sidecar.MaxNarrativeBytes,
		CacheEnabled:      a.cfg.Sidecar.CacheEnabled,
	})
	slides := catalog.NewService(a.log, repo, txm, bundles, catalog.Options{
		StrictFacets: a.cfg.Search.StrictFacets,
	})

	router := rest.NewRouter(rest.Routes{
		Slides: rest.NewSlideHandler(slides, a.log),
		Health: rest.NewHealthHandler(Version,
			rest.Check{Name: "database", Dep: a.pool},
			rest.Check{Name: "assets", Dep: a.store},
		),
		Loaders:       dataloader.Middleware(&dataloader.Repos{Detail: repo}),
		ViewportLimit: a.limiter.Limit(a.cfg.RateLimit.ViewportPerMinute),
	})

	return middleware.Chain(
		middleware.Recovery(a.log),
		middleware.RequestID(),
		middleware.ClientIP(a.cfg.Server.TrustProxy),
		middleware.Logger(a.log),
		middleware.CORS(a.cfg.CORS),
	)(router)
}

// Handler returns the root HTTP handler.
func (a *App) Handler() http.Handler { return a.handler }

// Close releases the pool, the asset store and the rate limiter.
func (a *App) Close() {
	a.limiter.Stop()
	if c, ok := a.store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			a.log.Warn("close asset store", slog.String("error", err.Error()))
		}
	}
	a.pool.Close()
}

// Serve listens on the configured address until ctx is canceled, then shuts
// the server down gracefully.
func (a *App) Serve(ctx context.Context) error {
	addr := net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return serve(ctx, a.newServer(), ln, a.cfg.Server.ShutdownTimeout, a.log)
}

func (a *App) newServer() *http.Server {
	return &http.Server{
		Handler:      a.handler,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(a.log.Handler(), slog.LevelWarn),
	}
}

func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration, logger *slog.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		logger.Info("http server stopped")
		return nil
	case err, ok := <-serverErr:
		if !ok {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	}
}

// Run initializes the logger, wires the application and serves HTTP until
// ctx is canceled.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("assets_backend", cfg.Assets.Backend),
	)

	a, err := New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Serve(ctx)
}
