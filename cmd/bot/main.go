package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"moviegate_bot/internal/bot"
	"moviegate_bot/internal/config"
	"moviegate_bot/internal/premium"
	"moviegate_bot/internal/storage"
	"moviegate_bot/internal/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	checker := premium.NewChecker(store, cfg.AdminChatID, log)

	b, err := bot.New(cfg.TelegramBotToken, store, cfg, checker, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	srv := web.New(store, checker, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting web server", "addr", cfg.HTTPAddr)
	go func() {
		if err := srv.Listen(cfg.HTTPAddr); err != nil {
			log.Error("web server", "error", err)
			cancel()
		}
	}()

	log.Info("starting bot")
	b.Run(ctx)

	if err := srv.Shutdown(); err != nil {
		log.Error("shutdown web server", "error", err)
	}

	log.Info("bot stopped")
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
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
