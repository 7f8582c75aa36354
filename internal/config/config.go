package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // zone database for REFRESH_TIMEZONE in minimal images

	"github.com/joho/godotenv"
)

// Config holds the configuration for the application.
type Config struct {
	DatabasePath string
	CatalogPath  string
	Port         string

	// Auth Config
	JWTSecret          string
	AccessTokenExpires time.Duration

	// Refresh Schedule Config
	RefreshDay         time.Weekday
	RefreshHour        int
	RefreshMinute      int
	RefreshTimezone    string
	RefreshOnStartup   bool
	RefreshConcurrency int
	RefreshTimeout     time.Duration

	// Telegram Config (optional, enables refresh reports)
	TelegramBotToken    string
	TelegramAdminChatID int64
	TelegramWebhookURL  string
}

// NewFromEnv creates a new Config object from environment variables.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func NewFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable not set")
	}

	expireMinutes, err := intFromEnv("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	if err != nil {
		return nil, err
	}
	if expireMinutes <= 0 {
		return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive, got %d", expireMinutes)
	}

	refreshDay, err := ParseWeekday(stringFromEnv("REFRESH_DAY", "sunday"))
	if err != nil {
		return nil, fmt.Errorf("invalid REFRESH_DAY: %w", err)
	}

	refreshHour, err := intFromEnv("REFRESH_HOUR", 0)
	if err != nil {
		return nil, err
	}
	if refreshHour < 0 || refreshHour > 23 {
		return nil, fmt.Errorf("REFRESH_HOUR must be between 0 and 23, got %d", refreshHour)
	}

	refreshMinute, err := intFromEnv("REFRESH_MINUTE", 0)
	if err != nil {
		return nil, err
	}
	if refreshMinute < 0 || refreshMinute > 59 {
		return nil, fmt.Errorf("REFRESH_MINUTE must be between 0 and 59, got %d", refreshMinute)
	}

	refreshTimezone := stringFromEnv("REFRESH_TIMEZONE", "Asia/Karachi")
	if _, err := time.LoadLocation(refreshTimezone); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_TIMEZONE %q: %w", refreshTimezone, err)
	}

	refreshOnStartup, err := boolFromEnv("REFRESH_ON_STARTUP", true)
	if err != nil {
		return nil, err
	}

	concurrency, err := intFromEnv("REFRESH_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}
	if concurrency < 1 {
		return nil, fmt.Errorf("REFRESH_CONCURRENCY must be at least 1, got %d", concurrency)
	}

	refreshTimeout, err := durationFromEnv("REFRESH_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	var adminChatID int64
	if os.Getenv("TELEGRAM_BOT_TOKEN") != "" && os.Getenv("TELEGRAM_ADMIN_CHAT_ID") == "" {
		return nil, fmt.Errorf("TELEGRAM_ADMIN_CHAT_ID environment variable not set")
	}
	if raw := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); raw != "" {
		adminChatID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID %q: %w", raw, err)
		}
	}

	return &Config{
		DatabasePath:        stringFromEnv("DATABASE_PATH", "data/meal_planner.db"),
		CatalogPath:         os.Getenv("CATALOG_PATH"),
		Port:                stringFromEnv("PORT", "8080"),
		JWTSecret:           jwtSecret,
		AccessTokenExpires:  time.Duration(expireMinutes) * time.Minute,
		RefreshDay:          refreshDay,
		RefreshHour:         refreshHour,
		RefreshMinute:       refreshMinute,
		RefreshTimezone:     refreshTimezone,
		RefreshOnStartup:    refreshOnStartup,
		RefreshConcurrency:  concurrency,
		RefreshTimeout:      refreshTimeout,
		TelegramBotToken:    os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAdminChatID: adminChatID,
		TelegramWebhookURL:  os.Getenv("TELEGRAM_WEBHOOK_URL"),
	}, nil
}

// TelegramEnabled reports whether refresh reports should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramAdminChatID != 0
}

// Location returns the refresh timezone. NewFromEnv has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.RefreshTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ParseWeekday accepts full English day names or their three letter
// abbreviations, case-insensitively.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}

func stringFromEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}
