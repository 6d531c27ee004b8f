// Package app wires the storefront server.
package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/tsksoundkits/storefront/internal/domain/audiopack"
	"github.com/tsksoundkits/storefront/internal/domain/catalog"
	"github.com/tsksoundkits/storefront/internal/gumroad"
	"github.com/tsksoundkits/storefront/internal/handler"
	"github.com/tsksoundkits/storefront/internal/repository"
	"github.com/tsksoundkits/storefront/pkg/health"
	"github.com/tsksoundkits/storefront/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the server.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	src, cleanup, err := newSource(ctx, lg, m, cfg, healthSvc)
	if err != nil {
		return errors.Wrap(err, "create catalog source")
	}
	defer cleanup()

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	products := catalog.NewFallback(catalog.NewCache(src, cfg.Catalog.CacheTTL))
	h := handler.NewHandler(
		handler.HandlerConfig{AudioBaseURL: cfg.Audio.BaseURL},
		products,
		audiopack.Default(),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("GET /readyz", healthSvc.ReadyEndpoint)
	h.Register(mux)
	if cfg.Audio.Dir != "" {
		mux.Handle("GET /audio/", http.StripPrefix("/audio/", http.FileServer(http.Dir(cfg.Audio.Dir))))
	}
	routeFinder := httpmiddleware.MakeRouteFinder(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "X-Request-ID"},
				ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
				Skip: func(r *http.Request) bool {
					return !strings.HasPrefix(r.URL.Path, "/api/")
				},
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.Instrument("storefront", routeFinder, m.MeterProvider(), m.TracerProvider()),
			httpmiddleware.LogRequests(routeFinder),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// newSource returns the Postgres mirror when a database is configured and
// the Gumroad API otherwise, registering the matching readiness check.
func newSource(
	ctx context.Context,
	lg *zap.Logger,
	m *app.Telemetry,
	cfg *Config,
	healthSvc *health.Health,
) (catalog.Source, func(), error) {
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, errors.Wrap(err, "create db pool")
		}
		if err := repository.RunMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, errors.Wrap(err, "run migrations")
		}
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
		lg.Info("Serving catalog from mirror")
		return repository.NewProductRepository(pool), pool.Close, nil
	}

	httpClient := &http.Client{
		Timeout: cfg.Gumroad.Timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}
	healthSvc.AddReadinessCheck("gumroad", cfg.Gumroad.Timeout,
		health.HTTPCheck(httpClient, cfg.Gumroad.BaseURL+"/products"),
		health.WithThresholds(5, 1),
	)
	lg.Info("Serving catalog from Gumroad", zap.String("base_url", cfg.Gumroad.BaseURL))
	return gumroad.New(cfg.Gumroad.AccessToken,
		gumroad.WithHTTPClient(httpClient),
		gumroad.WithBaseURL(cfg.Gumroad.BaseURL),
	), func() {}, nil
}
