package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	AppEnv           string
	LogLevel         string
	HTTPListenAddr   string
	MetricsNamespace string

	TelegramBotToken string

	GeminiAPIKeys  []string
	GeminiModel    string
	GeminiTimeout  time.Duration
	GeminiCooldown time.Duration
	AssistPerMin   int

	GoogleCredentials []byte
	SpreadsheetID     string
	SheetWorksheet    string
	LedgerPath        string
	PersistTimeout    time.Duration

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTLS      bool
}

// Load returns configuration populated from environment variables with fallbacks.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:           getenvDefault("APP_ENV", "development"),
		LogLevel:         getenvDefault("LOG_LEVEL", "info"),
		HTTPListenAddr:   getenvDefault("HTTP_LISTEN_ADDR", ":8080"),
		MetricsNamespace: getenvDefault("METRICS_NAMESPACE", "preetos_bot"),
		TelegramBotToken: trimmedEnv("TELEGRAM_BOT_TOKEN"),
		GeminiAPIKeys:    splitAndTrim(trimmedEnv("GEMINI_KEYS")),
		GeminiModel:      getenvDefault("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		SpreadsheetID:    trimmedEnv("GOOGLE_SPREADSHEET_ID"),
		SheetWorksheet:   getenvDefault("SHEET_WORKSHEET", "Orders"),
		LedgerPath:       getenvDefault("LEDGER_PATH", "data/ledger.db"),
		DatabaseURL:      trimmedEnv("DATABASE_URL"),
		RedisAddr:        trimmedEnv("REDIS_ADDR"),
		RedisPassword:    trimmedEnv("REDIS_PASSWORD"),
	}

	var err error
	if cfg.GeminiTimeout, err = time.ParseDuration(getenvDefault("GEMINI_TIMEOUT", "20s")); err != nil {
		return nil, fmt.Errorf("invalid GEMINI_TIMEOUT duration: %w", err)
	}
	if cfg.GeminiCooldown, err = time.ParseDuration(getenvDefault("GEMINI_COOLDOWN", "1h")); err != nil {
		return nil, fmt.Errorf("invalid GEMINI_COOLDOWN duration: %w", err)
	}
	if cfg.PersistTimeout, err = time.ParseDuration(getenvDefault("PERSIST_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid PERSIST_TIMEOUT duration: %w", err)
	}

	if cfg.AssistPerMin, err = strconv.Atoi(getenvDefault("ASSIST_PER_MINUTE", "10")); err != nil {
		return nil, fmt.Errorf("invalid ASSIST_PER_MINUTE value: %w", err)
	}

	if redisDBStr := getenvDefault("REDIS_DB", "0"); redisDBStr != "" {
		if cfg.RedisDB, err = strconv.Atoi(redisDBStr); err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
		}
	}
	cfg.RedisTLS = strings.EqualFold(getenvDefault("REDIS_TLS", "false"), "true")

	if b64 := trimmedEnv("GOOGLE_CREDENTIALS_B64"); b64 != "" {
		creds, decErr := base64.StdEncoding.DecodeString(b64)
		if decErr != nil {
			return nil, fmt.Errorf("invalid GOOGLE_CREDENTIALS_B64: %w", decErr)
		}
		cfg.GoogleCredentials = creds
	}

	if cfg.TelegramBotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.SpreadsheetID != "" && len(cfg.GoogleCredentials) == 0 {
		return nil, fmt.Errorf("GOOGLE_CREDENTIALS_B64 is required when GOOGLE_SPREADSHEET_ID is set")
	}

	return cfg, nil
}

// SheetsConfigured reports whether the spreadsheet ledger can be used.
func (c *Config) SheetsConfigured() bool {
	return c.SpreadsheetID != "" && len(c.GoogleCredentials) > 0
}

func getenvDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func splitAndTrim(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			res = append(res, trimmed)
		}
	}
	return res
}

func trimmedEnv(key string) string {
	if val, ok := os.LookupEnv(key); ok {
		return strings.TrimSpace(val)
	}
	return ""
}
