package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"irac/internal/bootstrap"
	"irac/internal/config"
	cronpkg "irac/internal/cron"
	"irac/internal/middleware"
	"irac/internal/payment"
	"irac/internal/pkg/lesan"
	"irac/internal/pkg/telegram"
	"irac/internal/repository"
	"irac/internal/router"
)

func main() {
	// --- Logger ---
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// --- Config ---
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// --- Database ---
	db, err := config.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := bootstrap.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database schema", zap.Error(err))
	}

	// --- Payment clients ---
	rpc := lesan.New(cfg.Lesan.Endpoint, cfg.Lesan.Token)
	client := payment.NewClient(rpc, logger)
	wallet := payment.NewWalletClient(rpc, logger)

	// --- Recovery store (Redis with in-memory fallback) ---
	recovery, recErr := payment.NewRecoveryStore(cfg.Redis.Addr, cfg.Redis.Pass, cfg.Redis.DB)
	if recErr != nil {
		logger.Warn("Redis unavailable for recovery store, using in-memory fallback", zap.Error(recErr))
	}

	// --- Callback deduper (Redis with in-memory fallback) ---
	deduper, dedupeErr := middleware.NewCallbackDeduper(
		cfg.Redis.Addr,
		cfg.Redis.Pass,
		cfg.Redis.DB,
		10*time.Minute,
	)
	if dedupeErr != nil {
		logger.Warn("Redis unavailable for callback dedup, using in-memory fallback", zap.Error(dedupeErr))
	}

	// --- Telegram report notifier ---
	botAPI := telegram.NewBotAPI(cfg.Telegram.BotToken)

	// --- Echo ---
	e := echo.New()
	e.HideBanner = true

	// --- Routes ---
	router.Setup(e, db, cfg, client, wallet, recovery, deduper, botAPI, logger)

	// --- Cron Scheduler ---
	scheduler := cronpkg.New(cfg, repository.NewPaymentRepository(db), client, botAPI, logger)
	scheduler.Start()

	// --- Start Server ---
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		logger.Info("Starting IRAC payment server", zap.String("addr", addr))
		if err := e.Start(addr); err != nil {
			logger.Info("Server stopped", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down...")

	// Stop cron
	ctx := scheduler.Stop()
	<-ctx.Done()

	// Stop HTTP server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
