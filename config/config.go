package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/joho/godotenv"
)

var ErrEmptyBaseURL = errors.New("CATALOG_BASE_URL must not be empty")

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	AllowedOrigin string
	// Remote catalog API
	CatalogBaseURL      string
	CatalogFetchTimeout time.Duration
	CatalogStrict       bool // fail the product load on a malformed record instead of skipping it
	// Query Engine
	PageSize int
	// Inbound rate limiting
	RateLimitRPS     float64
	RateLimitBurst   int
	RateLimitCleanup time.Duration
	RateLimitTTL     time.Duration
	// Key clients by X-Forwarded-For / X-Real-IP; only behind a trusted proxy
	TrustProxyHeaders bool
	ShutdownTimeout   time.Duration
}

func LoadConfig() (*Config, error) {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: a missing .env is normal outside local dev
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		CatalogBaseURL:      getEnv("CATALOG_BASE_URL", "https://fakestoreapi.com"),
		CatalogFetchTimeout: getDurationEnv("CATALOG_FETCH_TIMEOUT", 10*time.Second),
		CatalogStrict:       getBoolEnv("CATALOG_STRICT", false),

		PageSize: getIntEnv("PAGE_SIZE", 8),

		// 50 req/s, burst 100, cleanup every minute, TTL 3 minutes
		RateLimitRPS:      getFloatEnv("RATE_LIMIT_RPS", 50),
		RateLimitBurst:    getIntEnv("RATE_LIMIT_BURST", 100),
		RateLimitCleanup:  getDurationEnv("RATE_LIMIT_CLEANUP", time.Minute),
		RateLimitTTL:      getDurationEnv("RATE_LIMIT_TTL", 3*time.Minute),
		TrustProxyHeaders: getBoolEnv("TRUST_PROXY_HEADERS", false),
		ShutdownTimeout:   getDurationEnv("SHUTDOWN_TIMEOUT", 5*time.Second),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.CatalogBaseURL == "" {
		return ErrEmptyBaseURL
	}
	u, err := url.Parse(c.CatalogBaseURL)
	if err != nil {
		return fmt.Errorf("invalid CATALOG_BASE_URL %q: %w", c.CatalogBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("CATALOG_BASE_URL %q must use http or https", c.CatalogBaseURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}
	if c.RateLimitCleanup <= 0 {
		return fmt.Errorf("RATE_LIMIT_CLEANUP must be positive, got %s", c.RateLimitCleanup)
	}
	return nil
}
