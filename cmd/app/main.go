// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-subscription-admin/internal/application"
	"telegram-subscription-admin/internal/config"
	"telegram-subscription-admin/internal/infra/archive"
	"telegram-subscription-admin/internal/infra/catalog"
	"telegram-subscription-admin/internal/infra/db/sqlite"
	httpapi "telegram-subscription-admin/internal/infra/http"
	"telegram-subscription-admin/internal/infra/i18n"
	"telegram-subscription-admin/internal/infra/logging"
	"telegram-subscription-admin/internal/infra/metrics"
	"telegram-subscription-admin/internal/infra/state"
	tele "telegram-subscription-admin/internal/infra/telegram"
	"telegram-subscription-admin/internal/infra/worker"
	"telegram-subscription-admin/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, debug level)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	if err := os.MkdirAll(cfg.BackupsDir(), 0o755); err != nil {
		logger.Fatal().Err(err).Msg("create data directories")
	}

	// ---- SQLite ----
	db, err := sqlite.Open(cfg.SQLitePath())
	if err != nil {
		logger.Fatal().Err(err).Str("path", cfg.SQLitePath()).Msg("open database")
	}
	if err := sqlite.InitSchema(db); err != nil {
		logger.Fatal().Err(err).Msg("migrate schema")
	}

	// ---- Repositories & infra ----
	userRepo := sqlite.NewUserRepo(db)
	broadcastRepo := sqlite.NewBroadcastRepo(db)
	planCatalog := catalog.NewFileCatalog(cfg.PlansPath())
	archiveSvc := archive.NewService(cfg.Storage.EnvPath, cfg.SQLitePath(), cfg.BackupsDir())
	sessions := state.NewMemoryStore()

	translator, err := i18n.NewTranslator(i18n.LocalesFS)
	if err != nil {
		logger.Fatal().Err(err).Msg("load translations")
	}

	pool := worker.NewPool(cfg.Bot.Workers)
	pool.Start(ctx)
	defer pool.Stop()

	// ---- Telegram transport ----
	bot, err := tele.NewBot(&cfg.Bot, translator, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("create telegram bot")
	}

	// ---- Use cases ----
	userUC := usecase.NewUserUseCase(userRepo, logger)
	planUC := usecase.NewPlanUseCase(planCatalog, logger)
	broadcastUC := usecase.NewBroadcastUseCase(userRepo, broadcastRepo, bot, pool, logger)
	backupUC := usecase.NewBackupUseCase(archiveSvc, logger)

	// ---- Workflow engine ----
	flow := application.NewAdminFlow(sessions, userUC, broadcastUC, planUC, backupUC, translator, logger)
	bot.AttachFlow(flow)

	go func() {
		if err := bot.StartPolling(ctx); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Ops HTTP server (health + metrics) ----
	metrics.MustRegister()
	ops := httpapi.NewServer(cfg, logger)
	go func() {
		if err := ops.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("ops server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	bot.StopPolling()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("ops server shutdown")
	}
}
