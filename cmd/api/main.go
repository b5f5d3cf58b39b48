package main

import (
	"context"
	"errors"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/NYTimes/gziphandler"

	"github.com/tundephilps/test-ecommerce/config"
	"github.com/tundephilps/test-ecommerce/internal/delivery/http/middleware"
	v1 "github.com/tundephilps/test-ecommerce/internal/delivery/http/v1"
	"github.com/tundephilps/test-ecommerce/internal/infrastructure/cache"
	"github.com/tundephilps/test-ecommerce/internal/infrastructure/fakestore"
	"github.com/tundephilps/test-ecommerce/internal/usecase"
	"github.com/tundephilps/test-ecommerce/pkg/logger"
	"github.com/tundephilps/test-ecommerce/pkg/metrics"
)

const (
	serviceName    = "storefront"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize Logger
	logger.Init(cfg.Env, cfg.LogLevel)
	log := logger.Get()

	m := metrics.New()

	// --- Modules Initialization ---

	session := usecase.NewSessionUsecase(cfg.PageSize, m, log)
	loader := fakestore.NewClient(cfg.CatalogBaseURL, cfg.CatalogFetchTimeout, cfg.CatalogStrict, log)
	catalogUC := usecase.NewCatalogUsecase(loader, cache.NewSessionStore(), session, m, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initial catalog load runs in the background; the session reports
	// loading until products arrive.
	go catalogUC.Load(ctx)

	sessionHandler := v1.NewSessionHandler(session, catalogUC)
	mux := v1.NewRouter(v1.Handlers{
		Catalog: v1.NewCatalogHandler(catalogUC, cfg.PageSize),
		Session: sessionHandler,
		Health:  v1.NewHealthHandler(session, catalogUC),
		Metrics: m.Handler(),
	})

	rateLimiter := middleware.NewRateLimiter(context.Background(), cfg)

	// Apply CORS (with config injection), Request Logger, Rate Limit, and Gzip
	handler := middleware.NewCORSMiddleware(cfg)(mux)
	handler = middleware.RequestLogger(m)(handler)
	handler = rateLimiter.Middleware()(handler)
	handler = gziphandler.GzipHandler(handler)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	logger.ServiceStart(serviceName, serviceVersion, cfg.Port)
	log.Info().
		Str("catalog", cfg.CatalogBaseURL).
		Int("page_size", cfg.PageSize).
		Msgf("Server listening on %s", addr)

	<-ctx.Done()
	log.Info().Msg("Server shutting down...")

	rateLimiter.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := sessionHandler.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Catalog reload still running at shutdown")
	}

	logger.ServiceStop(serviceName)
}
