package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/to4to/EcommerceApp/internal/auth"
	"github.com/to4to/EcommerceApp/internal/cache"
	"github.com/to4to/EcommerceApp/internal/cart"
	"github.com/to4to/EcommerceApp/internal/catalog"
	"github.com/to4to/EcommerceApp/internal/config"
	"github.com/to4to/EcommerceApp/internal/db"
	"github.com/to4to/EcommerceApp/internal/events"
	"github.com/to4to/EcommerceApp/internal/httpapi"
	"github.com/to4to/EcommerceApp/internal/httpapi/middleware"
	"github.com/to4to/EcommerceApp/internal/order"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)

	decimal.MarshalJSONWithoutQuotes = true

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- DB ---
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.RunMigrations(cfg.DatabaseDSN, logger); err != nil {
			logger.Error("db migrate", "err", err)
			os.Exit(1)
		}
	}

	// --- repositories ---
	userRepo := auth.NewPostgresRepository(pool)
	productRepo := catalog.NewPostgresRepository(pool)
	cartRepo := cart.NewPostgresRepository(pool)
	orderRepo := order.NewPostgresRepository(pool)

	if cfg.SeedData {
		if err := catalog.Seed(ctx, productRepo); err != nil {
			logger.Error("seed products", "err", err)
			os.Exit(1)
		}
	}

	// --- optional collaborators ---
	var publisher order.EventPublisher
	if cfg.RabbitURL != "" {
		conn, err := events.Dial(cfg.RabbitURL)
		if err != nil {
			logger.Error("rabbitmq connect", "err", err)
			os.Exit(1)
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn)
		if err != nil {
			logger.Error("rabbitmq publisher", "err", err)
			os.Exit(1)
		}
		defer pub.Close()
		publisher = pub
	} else {
		logger.Info("RABBITMQ_URL not set, order events disabled")
	}

	var statuses order.StatusCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		statuses = cache.NewStatusCache(rdb, cfg.StatusCacheTTL)
	} else {
		logger.Info("REDIS_ADDR not set, status cache disabled")
	}

	// --- services ---
	authSvc := auth.NewService(userRepo, auth.TokenConfig{
		Secret:   cfg.JWTSecret,
		Issuer:   cfg.JWTIssuer,
		Audience: cfg.JWTAudience,
		TTL:      cfg.TokenTTL,
	})
	cartSvc := cart.NewService(cartRepo, productRepo)
	orderSvc := order.NewService(orderRepo, cartRepo, publisher, statuses, logger.With("component", "order"))

	// --- HTTP ---
	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:     authSvc,
		Products: httpapi.NewProductHandler(productRepo),
		Carts:    httpapi.NewCartHandler(cartSvc),
		Orders:   httpapi.NewOrderHandler(orderSvc),
		AuthCfg: middleware.AuthConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", "signal", sig.String())
	case err := <-errCh:
		logger.Error("server error", "err", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	cancel()

	logger.Info("shutdown complete")
}

func newLogger(level string) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(level)})
	logger := slog.New(h).With("service", "ecommerce-api")
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
