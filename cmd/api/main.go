package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/gridtrade/exchange/internal/api"
	"github.com/gridtrade/exchange/internal/api/handlers"
	"github.com/gridtrade/exchange/internal/services"
	"github.com/gridtrade/exchange/internal/store"
	"github.com/gridtrade/exchange/pkg/config"
	"github.com/gridtrade/exchange/pkg/database"
	"github.com/gridtrade/exchange/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	// Initialize logger
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	log.Info("Starting Energy Exchange Backend",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("store", cfg.StoreBackend),
	)

	// Select the store backend
	ctx := context.Background()
	var st store.Store
	switch cfg.StoreBackend {
	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		st = store.NewPostgres(db)
		log.Info("Database connected successfully")
	default:
		st = store.NewMemory()
		log.Info("Using in-memory store; state is lost on restart")
	}

	// Receipt queue client (optional)
	var asynqClient *asynq.Client
	if cfg.RedisAddr != "" {
		asynqClient = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer asynqClient.Close()
	} else {
		log.Warn("REDIS_ADDR not set, purchase receipts will not be enqueued")
	}

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		log.Warn("JWT_SECRET not set, login responses will not carry tokens")
	}

	// Initialize services and handlers
	userSvc := services.NewUserService(st)
	listingSvc := services.NewListingService(st)
	txnSvc := services.NewTransactionService(st, asynqClient)

	router := api.NewRouter(api.Dependencies{
		HMACSecret:          jwtSecret,
		AuthHandler:         handlers.NewAuthHandler(userSvc, jwtSecret),
		ListingsHandler:     handlers.NewListingsHandler(listingSvc),
		TransactionsHandler: handlers.NewTransactionsHandler(txnSvc),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	} else {
		log.Info("server exited gracefully")
	}
}
