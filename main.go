package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"skillSwapAPI/internal/auth"
	"skillSwapAPI/internal/config"
	"skillSwapAPI/internal/logger"
	"skillSwapAPI/internal/server"
	"skillSwapAPI/internal/store"
	"skillSwapAPI/internal/store/memory"
	"skillSwapAPI/internal/store/postgres"
	"skillSwapAPI/middleware"
)

var (
	cfg      *config.Config
	sugar    *zap.SugaredLogger
	db       store.Store
	verifier *auth.Verifier
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var err error
	cfg, err = config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	sugar, err = logger.New(cfg.LogMode)
	if err != nil {
		log.Fatal("Failed to build logger: ", err)
	}

	middleware.InitPrometheus()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	switch cfg.StoreDriver {
	case "memory":
		db = memory.New()
		sugar.Warn("Using in-memory store; data is lost on restart")
	default:
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			sugar.Fatalw("Failed to connect to database", "error", err)
		}
		pg := postgres.New(pool)
		if err := pg.Migrate(ctx); err != nil {
			pool.Close()
			sugar.Fatalw("Failed to migrate database", "error", err)
		}
		db = pg
		sugar.Info("Successfully connected to Postgres")
	}

	keys := auth.NewKeyCache(auth.KeyCacheConfig{
		URL:                cfg.JWKSURL,
		TTL:                cfg.JWKSCacheTTL,
		MinRefreshInterval: cfg.JWKSMinRefreshInterval,
		OnRefresh: func(err error) {
			middleware.RecordJWKSFetch(err)
			if err != nil {
				sugar.Warnw("JWKS refresh failed", "url", cfg.JWKSURL, "error", err)
			}
		},
	})
	verifier = auth.NewVerifier(keys, auth.VerifierConfig{
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		Leeway:   30 * time.Second,
	})
}

func main() {
	defer func() {
		sugar.Info("Closing store...")
		db.Close()
		_ = sugar.Sync()
	}()

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies)
	go limiter.Cleanup(bgCtx)

	r := server.NewRouter(server.Deps{
		Store:       db,
		Verifier:    verifier,
		RateLimiter: limiter,
		Log:         sugar,
		MetricsUser: cfg.MetricsUser,
		MetricsPass: cfg.MetricsPass,
		PprofSecret: cfg.PprofSecret,
	})

	// CORS configuration
	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(cfg.CORSOrigins),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorillaHandlers.AllowCredentials(),
	)

	srv := http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sugar.Infow("Starting server", "port", cfg.Port, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Error starting server", "error", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	sig := <-sigChan
	sugar.Infow("Got signal", "signal", sig.String())

	stopBackground()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Server shutdown error", "error", err)
	}

	sugar.Info("Server shutdown complete")
}
