package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SKROLZ_PORT", "PORT", "SKROLZ_ENV", "ENV", "GO_ENV",
		"DATABASE_URL", "REDIS_ADDR", "REDIS_PASSWORD",
		"JWT_SECRET", "JWT_PREVIOUS_SECRET",
		"RANKING_CALIBRATION_PATH", "FEED_SOURCE_TIMEOUT_MS",
		"TRENDING_CACHE_TTL_MS", "CORS_ALLOWED_ORIGINS",
		"OTEL_EXPORTER", "OTEL_ENDPOINT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/skrolz")
	t.Setenv("JWT_SECRET", "secret")

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.Env != DefaultEnv {
		t.Errorf("env = %q, want %q", cfg.Env, DefaultEnv)
	}
	if cfg.SourceTimeout() != 2*time.Second {
		t.Errorf("source timeout = %s, want 2s", cfg.SourceTimeout())
	}
	if cfg.TrendingCacheTTL() != 10*time.Minute {
		t.Errorf("cache TTL = %s, want 10m", cfg.TrendingCacheTTL())
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	clearConfigEnv(t)

	_, errs := Load("")
	if len(errs) == 0 {
		t.Fatal("expected validation errors with no configuration")
	}

	var hasDB, hasJWT bool
	for _, err := range errs {
		if errors.Is(err, ErrMissingDatabaseURL) {
			hasDB = true
		}
		if errors.Is(err, ErrMissingJWTSecret) {
			hasJWT = true
		}
	}
	if !hasDB {
		t.Error("expected ErrMissingDatabaseURL")
	}
	if !hasJWT {
		t.Error("expected ErrMissingJWTSecret")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "port: 9999\ndatabase_url: postgres://file/db\njwt_secret: file-secret\nredis_addr: file-redis:6379\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("PORT", "7777")
	t.Setenv("DATABASE_URL", "postgres://env/db")

	cfg, errs := Load(path)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cfg.Port != 7777 {
		t.Errorf("env PORT should win, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "postgres://env/db" {
		t.Errorf("env DATABASE_URL should win, got %q", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "file-secret" {
		t.Errorf("file jwt_secret should apply, got %q", cfg.JWTSecret)
	}
	if cfg.RedisAddr != "file-redis:6379" {
		t.Errorf("file redis_addr should apply, got %q", cfg.RedisAddr)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/skrolz")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PORT", "not-a-number")

	_, errs := Load("")
	found := false
	for _, err := range errs {
		if errors.Is(err, ErrInvalidPort) {
			found = true
		}
	}
	if !found {
		t.Error("expected ErrInvalidPort")
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	clearConfigEnv(t)

	_, errs := Load("/nonexistent/config.yaml")
	if len(errs) != 1 {
		t.Fatalf("expected a single load error, got %v", errs)
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/skrolz")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.skrolz.com, https://staging.skrolz.com")

	cfg, errs := Load("")
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CORSAllowedOrigins[1] != "https://staging.skrolz.com" {
		t.Errorf("expected trimmed origin, got %q", cfg.CORSAllowedOrigins[1])
	}
}

func TestLoad_InvalidExporter(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/skrolz")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("OTEL_EXPORTER", "udp")

	_, errs := Load("")
	found := false
	for _, err := range errs {
		if errors.Is(err, ErrInvalidExporter) {
			found = true
		}
	}
	if !found {
		t.Error("expected ErrInvalidExporter")
	}
}
