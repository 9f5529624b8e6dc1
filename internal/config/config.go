// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration.
type Config struct {
	TelegramBotToken string
	DatabasePath     string
	LogLevel         string
	AdminChatID      int64
	HTTPAddr         string
	BaseURL          string
	DefaultZoneID    string
	DefaultAdTarget  int
	DefaultPosterURL string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}

	adminRaw := os.Getenv("ADMIN_CHAT_ID")
	if adminRaw == "" {
		return nil, fmt.Errorf("ADMIN_CHAT_ID is required")
	}
	adminID, err := strconv.ParseInt(adminRaw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_CHAT_ID %q: %w", adminRaw, err)
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/bot.db"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":3000"
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}

	zoneID := os.Getenv("DEFAULT_ZONE_ID")
	if zoneID == "" {
		zoneID = "10341337"
	}

	adTarget := 3
	if raw := os.Getenv("DEFAULT_AD_TARGET"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid DEFAULT_AD_TARGET %q", raw)
		}
		adTarget = n
	}

	poster := os.Getenv("DEFAULT_POSTER_URL")
	if poster == "" {
		poster = "https://via.placeholder.com/400x200.png"
	}

	return &Config{
		TelegramBotToken: token,
		DatabasePath:     dbPath,
		LogLevel:         logLevel,
		AdminChatID:      adminID,
		HTTPAddr:         httpAddr,
		BaseURL:          baseURL,
		DefaultZoneID:    zoneID,
		DefaultAdTarget:  adTarget,
		DefaultPosterURL: poster,
	}, nil
}

// IsAdmin checks whether a chat id belongs to the administrator.
func (c *Config) IsAdmin(chatID int64) bool {
	return chatID == c.AdminChatID
}
