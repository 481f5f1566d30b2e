package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kisanlog/kisanlog/internal/app"
	"github.com/kisanlog/kisanlog/internal/auth"
	"github.com/kisanlog/kisanlog/internal/expenses"
	"github.com/kisanlog/kisanlog/internal/observability"
	"github.com/kisanlog/kisanlog/internal/platform/cache"
	"github.com/kisanlog/kisanlog/internal/platform/db"
	"github.com/kisanlog/kisanlog/internal/summary"
	"github.com/kisanlog/kisanlog/internal/yields"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	slog.SetDefault(logger)

	dbpool, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, dbpool); err != nil {
			logger.Error("run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient, err = cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("redis unavailable, token revocation and summary cache disabled", slog.Any("error", err))
			redisClient = nil
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
		}
	}

	issuer, err := auth.NewIssuer(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		logger.Error("token issuer", slog.Any("error", err))
		os.Exit(1)
	}

	formatter, err := summary.NewFormatter(cfg.Currency)
	if err != nil {
		logger.Error("currency", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	var revoker auth.Revoker
	if redisClient != nil {
		revoker = auth.NewRedisRevocationStore(redisClient)
	}

	authService := auth.NewService(auth.NewRepository(dbpool))
	authHandler := auth.NewHandler(logger, authService, issuer, auth.HandlerOptions{
		Cookies:  auth.CookieConfig{Secure: cfg.IsProduction()},
		Revoker:  revoker,
		Recorder: metrics,
	})
	sessionMiddleware := auth.NewMiddleware(logger, issuer, authService, revoker)

	summaryService := summary.NewService(
		summary.NewRepository(dbpool),
		summary.NewCache(redisClient, cfg.SummaryCacheTTL, logger),
		formatter,
	)
	expenseService := expenses.NewService(expenses.NewRepository(dbpool), summaryService)
	yieldService := yields.NewService(yields.NewRepository(dbpool), summaryService)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Metrics:           metrics,
		AuthHandler:       authHandler,
		SessionMiddleware: sessionMiddleware,
		ExpenseHandler:    expenses.NewHandler(logger, expenseService),
		YieldHandler:      yields.NewHandler(logger, yieldService),
		SummaryHandler:    summary.NewHandler(logger, summaryService),
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.Addr()), slog.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
