package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Telegram
	TelegramToken string

	// Storage
	PostgresDSN   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Backend
	Environment    string
	APIBaseURL     string
	BackendTimeout time.Duration
	JobsURL        string
	PostsURL       string
	ImageBaseURL   string

	// Listings
	PageSize            int
	CheckInterval       time.Duration
	MaxListingsPerCheck int

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Environment:         "production",
		APIBaseURL:          "http://localhost:8080",
		BackendTimeout:      5 * time.Second,
		PageSize:            10,
		CheckInterval:       5 * time.Minute,
		MaxListingsPerCheck: 10,
		LogLevel:            "info",
		RedisAddr:           "localhost:6379",
		RedisDB:             0,
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	cfg.PostgresDSN = os.Getenv("POSTGRES_DSN")
	if cfg.PostgresDSN == "" {
		return nil, fmt.Errorf("POSTGRES_DSN is required")
	}

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}

	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	if redisDB := os.Getenv("REDIS_DB"); redisDB != "" {
		db, err := strconv.Atoi(redisDB)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.RedisDB = db
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Environment = env
	}

	if baseURL := os.Getenv("API_BASE_URL"); baseURL != "" {
		cfg.APIBaseURL = baseURL
	}

	if timeout := os.Getenv("BACKEND_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid BACKEND_TIMEOUT: %w", err)
		}
		cfg.BackendTimeout = d
	}

	cfg.JobsURL = os.Getenv("JOBS_URL")
	if cfg.JobsURL == "" {
		cfg.JobsURL = cfg.APIBaseURL + "/data/jobs.json"
	}

	cfg.PostsURL = os.Getenv("POSTS_URL")
	if cfg.PostsURL == "" {
		cfg.PostsURL = cfg.APIBaseURL + "/data/posts.json"
	}

	cfg.ImageBaseURL = os.Getenv("IMAGE_BASE_URL")
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = cfg.APIBaseURL
	}

	if pageSize := os.Getenv("PAGE_SIZE"); pageSize != "" {
		n, err := strconv.Atoi(pageSize)
		if err != nil {
			return nil, fmt.Errorf("invalid PAGE_SIZE: %w", err)
		}
		cfg.PageSize = n
	}

	if interval := os.Getenv("CHECK_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err != nil {
			return nil, fmt.Errorf("invalid CHECK_INTERVAL: %w", err)
		}
		cfg.CheckInterval = d
	}

	if maxListings := os.Getenv("MAX_LISTINGS_PER_CHECK"); maxListings != "" {
		n, err := strconv.Atoi(maxListings)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_LISTINGS_PER_CHECK: %w", err)
		}
		cfg.MaxListingsPerCheck = n
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return fmt.Errorf("telegram token is empty")
	}

	if c.PostgresDSN == "" {
		return fmt.Errorf("postgres DSN is empty")
	}

	if c.APIBaseURL == "" {
		return fmt.Errorf("api base url is empty")
	}

	if c.BackendTimeout <= 0 {
		return fmt.Errorf("backend timeout must be positive: %v", c.BackendTimeout)
	}

	if c.PageSize < 1 || c.PageSize > 50 {
		return fmt.Errorf("page size must be between 1 and 50")
	}

	if c.CheckInterval < time.Minute {
		return fmt.Errorf("check interval too small: %v", c.CheckInterval)
	}

	if c.MaxListingsPerCheck < 1 || c.MaxListingsPerCheck > 100 {
		return fmt.Errorf("max listings per check must be between 1 and 100")
	}

	return validateLogLevel(c.LogLevel)
}

func validateLogLevel(level string) error {
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[level] {
		return fmt.Errorf("invalid log level: %s", level)
	}
	return nil
}
