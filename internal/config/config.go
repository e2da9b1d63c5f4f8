// Package config provides configuration loading and validation for the
// feed service. It uses koanf to merge environment variables with
// optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the feed service.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database
	DatabaseURL string `koanf:"database_url"`

	// Redis (trending cache). Optional; empty disables the cache.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`

	// JWT authentication
	JWTSecret         string `koanf:"jwt_secret"`
	JWTPreviousSecret string `koanf:"jwt_previous_secret"`

	// Ranking
	CalibrationPath    string `koanf:"calibration_path"`
	SourceTimeoutMs    int    `koanf:"source_timeout_ms"`
	TrendingCacheTTLMs int    `koanf:"trending_cache_ttl_ms"`

	// CORS
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// OpenTelemetry
	OTelExporter string `koanf:"otel_exporter"` // "grpc", "http", or "" to disable
	OTelEndpoint string `koanf:"otel_endpoint"`
}

// Configuration validation errors.
var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrInvalidPort        = errors.New("PORT must be a valid integer")
	ErrInvalidExporter    = errors.New("OTEL_EXPORTER must be grpc, http, or empty")
)

// Default values for non-secret configuration.
const (
	DefaultPort            = 8080
	DefaultEnv             = "development"
	DefaultSourceTimeoutMs = 2000
	DefaultCacheTTLMs      = 10 * 60 * 1000
)

// Load reads configuration from environment variables and an optional
// YAML file. Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	port, portErr := getEnvIntOrDefaultMulti([]string{"SKROLZ_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	sourceTimeout, timeoutErr := getEnvIntOrDefault("FEED_SOURCE_TIMEOUT_MS", k.Int("source_timeout_ms"), DefaultSourceTimeoutMs)
	if timeoutErr != nil {
		loadErrs = append(loadErrs, timeoutErr)
	}

	cacheTTL, ttlErr := getEnvIntOrDefault("TRENDING_CACHE_TTL_MS", k.Int("trending_cache_ttl_ms"), DefaultCacheTTLMs)
	if ttlErr != nil {
		loadErrs = append(loadErrs, ttlErr)
	}

	origins := k.Strings("cors_allowed_origins")
	if val := os.Getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		origins = splitAndTrim(val)
	}

	cfg := &Config{
		Port:               port,
		Env:                getEnvOrDefaultMulti([]string{"SKROLZ_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:        getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisAddr:          getEnvOrKoanf("REDIS_ADDR", k, "redis_addr"),
		RedisPassword:      getEnvOrKoanf("REDIS_PASSWORD", k, "redis_password"),
		JWTSecret:          getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		JWTPreviousSecret:  getEnvOrKoanf("JWT_PREVIOUS_SECRET", k, "jwt_previous_secret"),
		CalibrationPath:    getEnvOrKoanf("RANKING_CALIBRATION_PATH", k, "calibration_path"),
		SourceTimeoutMs:    sourceTimeout,
		TrendingCacheTTLMs: cacheTTL,
		CORSAllowedOrigins: origins,
		OTelExporter:       getEnvOrKoanf("OTEL_EXPORTER", k, "otel_exporter"),
		OTelEndpoint:       getEnvOrKoanf("OTEL_ENDPOINT", k, "otel_endpoint"),
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// SourceTimeout returns the per-source fetch timeout as a duration.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.SourceTimeoutMs) * time.Millisecond
}

// TrendingCacheTTL returns the trending cache TTL as a duration.
func (c *Config) TrendingCacheTTL() time.Duration {
	return time.Duration(c.TrendingCacheTTLMs) * time.Millisecond
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	switch c.OTelExporter {
	case "", "grpc", "http":
	default:
		errs = append(errs, ErrInvalidExporter)
	}

	return errs
}

// getEnvOrKoanf returns the environment variable value if set,
// otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in
// order, then the koanf value, then the default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault parses the environment variable as int if set,
// otherwise returns the koanf value or the default. A zero file value
// falls back to the default.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, ErrInvalidPort)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in
// order.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

func splitAndTrim(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
