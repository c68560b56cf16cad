// Package config loads storefront settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	CatalogServiceURL string
	OrderServiceURL   string
	PaymentServiceURL string

	RedisAddr        string // empty selects the in-process session cache
	RedisPassword    string
	RedisDB          int
	SessionTTL       time.Duration
	SessionCacheSize int
	CookieSecure     bool

	OIDCURL         string
	OIDCRealm       string
	OIDCClientID    string
	OIDCRedirectURL string

	AppURL         string // front-end origin, target of post-login and post-logout redirects
	AllowedOrigins []string
	AdminUsernames []string
	TaxRate        decimal.Decimal

	LogLevel  zerolog.Level
	LogFormat string
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		CatalogServiceURL: getEnv("CATALOG_SERVICE_URL", "http://localhost:8082/api"),
		OrderServiceURL:   getEnv("ORDER_SERVICE_URL", "http://localhost:8084/api"),
		PaymentServiceURL: getEnv("PAYMENT_SERVICE_URL", "http://localhost:8085/api"),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		OIDCURL:           getEnv("OIDC_URL", "http://localhost:8180"),
		OIDCRealm:         getEnv("OIDC_REALM", "coffeeshop"),
		OIDCClientID:      getEnv("OIDC_CLIENT_ID", "web-frontend"),
		OIDCRedirectURL:   getEnv("OIDC_REDIRECT_URL", "http://localhost:8080/auth/callback"),
		AppURL:            strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		AdminUsernames:    splitList(getEnv("ADMIN_USERNAMES", "admin1")),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = durationEnv("SESSION_TTL", 8*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = intEnv("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.SessionCacheSize, err = intEnv("SESSION_CACHE_SIZE", 10000); err != nil {
		return nil, err
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getEnv("SESSION_COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_COOKIE_SECURE: %w", err)
	}
	if cfg.TaxRate, err = decimal.NewFromString(getEnv("TAX_RATE", "0.10")); err != nil {
		return nil, fmt.Errorf("invalid TAX_RATE: %w", err)
	}
	if cfg.LogLevel, err = zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for key, raw := range map[string]string{
		"CATALOG_SERVICE_URL": c.CatalogServiceURL,
		"ORDER_SERVICE_URL":   c.OrderServiceURL,
		"PAYMENT_SERVICE_URL": c.PaymentServiceURL,
		"OIDC_URL":            c.OIDCURL,
		"OIDC_REDIRECT_URL":   c.OIDCRedirectURL,
		"APP_URL":             c.AppURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid %s: %q is not an absolute URL", key, raw)
		}
	}
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("invalid TAX_RATE: %s is negative", c.TaxRate)
	}
	if c.SessionCacheSize <= 0 {
		return fmt.Errorf("invalid SESSION_CACHE_SIZE: %d", c.SessionCacheSize)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("invalid LOG_FORMAT: %q", c.LogFormat)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, def.String()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	n, err := strconv.Atoi(getEnv(key, strconv.Itoa(def)))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
