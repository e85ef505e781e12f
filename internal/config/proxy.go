package config

import (
	"fmt"
	"os"
	"time"
)

// ProxyConfig configures the image proxy service.
type ProxyConfig struct {
	Addr        string
	Environment string

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	MaxAge time.Duration

	LogLevel string
}

func LoadProxy() (*ProxyConfig, error) {
	cfg := &ProxyConfig{
		Addr:        ":8787",
		Environment: "production",
		S3Region:    "auto",
		MaxAge:      4 * time.Hour,
		LogLevel:    "info",
	}

	if addr := os.Getenv("PROXY_ADDR"); addr != "" {
		cfg.Addr = addr
	}

	if env := os.Getenv("APP_ENV"); env != "" {
		cfg.Environment = env
	}

	cfg.S3Bucket = os.Getenv("S3_BUCKET")
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required")
	}

	if region := os.Getenv("S3_REGION"); region != "" {
		cfg.S3Region = region
	}

	cfg.S3Endpoint = os.Getenv("S3_ENDPOINT")
	cfg.S3AccessKey = os.Getenv("S3_ACCESS_KEY")
	cfg.S3SecretKey = os.Getenv("S3_SECRET_KEY")

	if maxAge := os.Getenv("IMAGE_MAX_AGE"); maxAge != "" {
		d, err := time.ParseDuration(maxAge)
		if err != nil {
			return nil, fmt.Errorf("invalid IMAGE_MAX_AGE: %w", err)
		}
		cfg.MaxAge = d
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, nil
}

func (c *ProxyConfig) Validate() error {
	if c.S3Bucket == "" {
		return fmt.Errorf("s3 bucket is empty")
	}

	if (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return fmt.Errorf("s3 access key and secret key must be set together")
	}

	if c.MaxAge < 0 {
		return fmt.Errorf("image max age must not be negative: %v", c.MaxAge)
	}

	return validateLogLevel(c.LogLevel)
}
