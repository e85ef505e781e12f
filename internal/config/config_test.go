package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("TELEGRAM_TOKEN", "123:abc")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/board")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("API_BASE_URL", "https://api.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "https://api.example.com/data/jobs.json", cfg.JobsURL)
	assert.Equal(t, "https://api.example.com/data/posts.json", cfg.PostsURL)
	assert.Equal(t, "https://api.example.com", cfg.ImageBaseURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("BACKEND_TIMEOUT", "2s")
	t.Setenv("PAGE_SIZE", "20")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("APP_ENV", "local")
	t.Setenv("JOBS_URL", "https://cdn.example.com/jobs.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.BackendTimeout)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "https://cdn.example.com/jobs.json", cfg.JobsURL)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/board")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"REDIS_DB":               "zero",
		"BACKEND_TIMEOUT":        "soon",
		"PAGE_SIZE":              "ten",
		"CHECK_INTERVAL":         "often",
		"MAX_LISTINGS_PER_CHECK": "many",
	} {
		t.Run(key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(key, value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := Config{
		TelegramToken:       "t",
		PostgresDSN:         "dsn",
		APIBaseURL:          "http://api",
		BackendTimeout:      time.Second,
		PageSize:            10,
		CheckInterval:       time.Minute,
		MaxListingsPerCheck: 10,
		LogLevel:            "info",
	}
	require.NoError(t, valid.Validate())

	broken := []func(c *Config){
		func(c *Config) { c.PageSize = 0 },
		func(c *Config) { c.CheckInterval = time.Second },
		func(c *Config) { c.MaxListingsPerCheck = 1000 },
		func(c *Config) { c.LogLevel = "trace" },
		func(c *Config) { c.BackendTimeout = 0 },
	}
	for i, mutate := range broken {
		c := valid
		mutate(&c)
		assert.Error(t, c.Validate(), "case %d", i)
	}
}

func TestLoadProxy(t *testing.T) {
	t.Setenv("S3_BUCKET", "images")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")

	cfg, err := LoadProxy()
	require.NoError(t, err)

	assert.Equal(t, ":8787", cfg.Addr)
	assert.Equal(t, 4*time.Hour, cfg.MaxAge)
	assert.NoError(t, cfg.Validate())

	cfg.S3SecretKey = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadProxy_RequiresBucket(t *testing.T) {
	t.Setenv("S3_BUCKET", "")

	_, err := LoadProxy()
	assert.Error(t, err)
}
