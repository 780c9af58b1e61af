package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the configuration for the application.
type Config struct {
	BackendURL    string
	BackendAPIKey string // optional "id:secret" pair for signed requests

	RequestTimeout  time.Duration
	GenerateTimeout time.Duration // client-side abort, longer than the backend's own timeout

	// Backoff policy for multi-day generation. The upstream generator is
	// rate limited, so bursts are spaced out and rate-limit errors are
	// retried a bounded number of times.
	GenerateDelay      time.Duration
	GenerateRetries    int
	GenerateRetryDelay time.Duration

	DatabasePath string

	// Telegram Config (optional for CLI, required for Bot)
	TelegramBotToken       string
	TelegramWebhookURL     string
	TelegramAllowedUserIDs []int64
	AdminTelegramID        int64
}

// NewFromEnv creates a new Config object from environment variables.
func NewFromEnv() (*Config, error) {
	backendURL := os.Getenv("BACKEND_API_URL")
	if backendURL == "" {
		return nil, fmt.Errorf("BACKEND_API_URL environment variable not set")
	}
	backendURL = strings.TrimRight(backendURL, "/")

	requestTimeout, err := durationEnv("REQUEST_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	generateTimeout, err := durationEnv("GENERATE_TIMEOUT", 90*time.Second)
	if err != nil {
		return nil, err
	}

	generateDelay, err := durationEnv("GENERATE_DELAY", 2*time.Second)
	if err != nil {
		return nil, err
	}

	generateRetryDelay, err := durationEnv("GENERATE_RETRY_DELAY", 15*time.Second)
	if err != nil {
		return nil, err
	}

	generateRetries := 2
	if v := os.Getenv("GENERATE_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("GENERATE_RETRIES must be a non-negative integer, got %q", v)
		}
		generateRetries = n
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "data/planner.db"
	}

	var allowedIDs []int64
	if v := os.Getenv("TELEGRAM_ALLOWED_USER_IDS"); v != "" {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseInt(part, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS contains invalid id %q", part)
			}
			allowedIDs = append(allowedIDs, id)
		}
	}

	var adminID int64
	if v := os.Getenv("ADMIN_TELEGRAM_ID"); v != "" {
		fmt.Sscanf(v, "%d", &adminID)
	}

	return &Config{
		BackendURL:             backendURL,
		BackendAPIKey:          os.Getenv("BACKEND_API_KEY"),
		RequestTimeout:         requestTimeout,
		GenerateTimeout:        generateTimeout,
		GenerateDelay:          generateDelay,
		GenerateRetries:        generateRetries,
		GenerateRetryDelay:     generateRetryDelay,
		DatabasePath:           dbPath,
		TelegramBotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL:     os.Getenv("TELEGRAM_WEBHOOK_URL"),
		TelegramAllowedUserIDs: allowedIDs,
		AdminTelegramID:        adminID,
	}, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}
