package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/assist"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/cache"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/catalog"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/config"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/convo"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/httpx"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/ledger"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/metrics"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/repo"
	"github.com/mangahasferdie03/Preetos-Order-Parser-Telegram-Bot/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	logger.Info("starting", "env", cfg.AppEnv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.New(cfg.MetricsNamespace)
	cat := catalog.Default()

	var led ledger.Ledger
	if cfg.SheetsConfigured() {
		sheetsLedger, err := ledger.NewSheets(ctx, logger, cfg.GoogleCredentials, cfg.SpreadsheetID, cfg.SheetWorksheet)
		if err != nil {
			logger.Error("sheets ledger init failed", "error", err)
			os.Exit(1)
		}
		led = sheetsLedger
		logger.Info("ledger backend", "backend", "sheets", "worksheet", cfg.SheetWorksheet)
	} else {
		localLedger, err := ledger.NewLocal(ctx, logger, cfg.LedgerPath)
		if err != nil {
			logger.Error("local ledger init failed", "error", err)
			os.Exit(1)
		}
		defer localLedger.Close()
		led = localLedger
		logger.Info("ledger backend", "backend", "sqlite", "path", cfg.LedgerPath)
	}

	var archive *repo.Repo
	if cfg.DatabaseURL != "" {
		archive, err = repo.New(ctx, logger, cfg.DatabaseURL)
		if err != nil {
			logger.Error("postgres init failed", "error", err)
			os.Exit(1)
		}
		defer archive.Close()
	} else {
		logger.Warn("DATABASE_URL not set, message archive disabled")
	}

	var redisCache *cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err = cache.New(ctx, logger, cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			UseTLS:   cfg.RedisTLS,
		})
		if err != nil {
			logger.Error("redis init failed", "error", err)
			os.Exit(1)
		}
		defer redisCache.Close()
	} else {
		logger.Warn("REDIS_ADDR not set, assist rate limiting disabled")
	}

	var assistClient *assist.Client
	if len(cfg.GeminiAPIKeys) > 0 {
		assistClient = assist.New(logger, m, assist.Config{
			Keys:     cfg.GeminiAPIKeys,
			Model:    cfg.GeminiModel,
			Timeout:  cfg.GeminiTimeout,
			Cooldown: cfg.GeminiCooldown,
		})
	} else {
		logger.Warn("GEMINI_KEYS not set, running on local parser only")
	}

	engine := convo.New(convo.Config{
		Logger:          logger,
		Metrics:         m,
		Catalog:         cat,
		Assist:          assistClient,
		Ledger:          led,
		Repo:            archive,
		Cache:           redisCache,
		AssistPerMinute: cfg.AssistPerMin,
		PersistTimeout:  cfg.PersistTimeout,
	})

	bot, err := telegram.New(logger, m, cfg.TelegramBotToken, engine, led)
	if err != nil {
		logger.Error("telegram init failed", "error", err)
		os.Exit(1)
	}

	ops := httpx.New(logger, cfg.HTTPListenAddr, m)
	go func() {
		if err := ops.Start(); err != nil {
			logger.Error("ops server failed", "error", err)
			cancel()
		}
	}()

	go func() {
		if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("telegram polling stopped", "error", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case s := <-sig:
		logger.Info("shutting down", "signal", s.String())
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		logger.Warn("ops shutdown", "error", err)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
