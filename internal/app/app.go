package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-api/internal/cache"
	"storefront-api/internal/config"
	"storefront-api/internal/database"
	"storefront-api/internal/handler"
	"storefront-api/internal/imagehost"
	"storefront-api/internal/menuscan"
	"storefront-api/internal/middleware"
	"storefront-api/internal/repository"
	"storefront-api/internal/router"
	"storefront-api/internal/service"
)

type App struct {
	server       *http.Server
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), database.PoolSettings{
		URL:               cfg.DatabaseURL,
		MaxConns:          cfg.DBMaxConns,
		MinConns:          cfg.DBMinConns,
		ConnMaxLifetime:   cfg.DBConnMaxLifetime,
		ConnMaxIdleTime:   cfg.DBConnMaxIdleTime,
		HealthCheckPeriod: cfg.DBHealthCheckPeriod,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	storeRepo := repository.NewStoreRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	slog.Info("database ready")

	cleanups := []func(){db.Close}

	var storefrontCache *cache.StorefrontCache
	if cfg.RedisAddr != "" {
		storefrontCache, err = cache.NewStorefrontCache(context.Background(), cfg.RedisAddr, cfg.StorefrontCacheTTL)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		cleanups = append(cleanups, func() { _ = storefrontCache.Close() })
	}

	var images imagehost.Host
	if cfg.S3Bucket != "" {
		s3Host, err := imagehost.NewS3Host(context.Background(), imagehost.S3Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to initialize image host: %w", err)
		}
		images = s3Host
		slog.Info("image hosting ready", "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("image hosting not configured; cover uploads disabled")
	}

	tokenService := service.NewTokenService(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	authService := service.NewAuthService(userRepo, storeRepo, tokenService)
	storeService := service.NewStoreService(storeRepo, itemRepo, images, storefrontCache)
	itemService := service.NewItemService(itemRepo, images, storefrontCache)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo, storeRepo)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:  handler.NewAuthHandler(authService, cfg.JWTAccessTTL, cfg.JWTRefreshTTL),
		Store: handler.NewStoreHandler(storeService),
		Item:  handler.NewItemHandler(itemService, menuscan.NewScanner(cfg.OCRLanguages)),
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{server: server, cleanupFuncs: cleanups}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
