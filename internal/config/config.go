// Package config provides the tutor server configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the HTTP server configuration.
type Config struct {
	Addr           string
	Env            string
	AllowedOrigins []string
	MaxBodyBytes   int64
	MaxUploadBytes int64
	RequestTimeout time.Duration
	DBPath         string // empty means the default data directory
	TrustProxy     bool   // honor X-Forwarded-For / X-Real-IP
}

// Load reads configuration from CODECOACH_* environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("CODECOACH_ADDR", ":8787"),
		Env:            strings.ToLower(getEnv("CODECOACH_ENV", "production")),
		AllowedOrigins: splitList(getEnv("CODECOACH_ALLOWED_ORIGINS", "*")),
		MaxBodyBytes:   int64(getEnvInt("CODECOACH_MAX_BODY_BYTES", 1<<20)),
		MaxUploadBytes: int64(getEnvInt("CODECOACH_MAX_UPLOAD_BYTES", 10<<20)),
		RequestTimeout: getEnvDuration("CODECOACH_REQUEST_TIMEOUT", 90*time.Second),
		DBPath:         getEnv("CODECOACH_DB", ""),
		TrustProxy:     getEnvBool("CODECOACH_TRUST_PROXY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("CODECOACH_ADDR cannot be empty")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("CODECOACH_MAX_BODY_BYTES must be > 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("CODECOACH_MAX_UPLOAD_BYTES must be > 0")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("CODECOACH_REQUEST_TIMEOUT must be > 0")
	}
	return nil
}

// IsDevelopment reports whether error details may be shown to clients.
func (c *Config) IsDevelopment() bool {
	return isDevelopment(c.Env)
}

// Development reports whether CODECOACH_ENV names a development setup,
// without validating the server-only settings.
func Development() bool {
	return isDevelopment(strings.ToLower(getEnv("CODECOACH_ENV", "production")))
}

func isDevelopment(env string) bool {
	return env == "development" || env == "dev"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
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
