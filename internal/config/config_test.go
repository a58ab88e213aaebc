package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"REDIS_URL":              "redis://localhost:6379/0",
		"ESUITE_API_HOST":        "https://esuite.example.com",
		"APP_ENV":                "",
		"PORT":                   "",
		"RATE_LIMIT_MAX":         "",
		"RATE_LIMIT_WINDOW":      "",
		"ESUITE_HTTP_TIMEOUT_MS": "",
		"CORS_ALLOWED_ORIGINS":   "",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AppEnv != "development" {
		t.Fatalf("unexpected app env: %q", cfg.AppEnv)
	}
	if cfg.HTTPAddr() != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.HTTPAddr())
	}
	if cfg.RateLimitMax != 5 {
		t.Fatalf("unexpected rate limit max: %d", cfg.RateLimitMax)
	}
	if cfg.RateLimitWindow != 10*time.Second {
		t.Fatalf("unexpected rate limit window: %s", cfg.RateLimitWindow)
	}
	if cfg.ESuiteHTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected upstream timeout: %s", cfg.ESuiteHTTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadForTests(map[string]string{
		"REDIS_URL":                "redis://localhost:6379/1",
		"ESUITE_API_HOST":          "https://esuite.example.com",
		"ESUITE_API_CLIENT":        "client-id",
		"ESUITE_API_PASSWORD":      "secret",
		"ESUITE_API_VERSION":       "2",
		"ESUITE_HTTP_TIMEOUT_MS":   "1500",
		"ESUITE_HTTP_MAX_ATTEMPTS": "3",
		"PORT":                     "9090",
		"RATE_LIMIT_MAX":           "20",
		"RATE_LIMIT_WINDOW":        "1m",
		"CORS_ALLOWED_ORIGINS":     "https://a.example.com, https://b.example.com",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPAddr() != ":9090" {
		t.Fatalf("unexpected addr: %q", cfg.HTTPAddr())
	}
	if cfg.ESuiteClientID != "client-id" || cfg.ESuitePassword != "secret" || cfg.ESuiteVersion != "2" {
		t.Fatalf("unexpected upstream credentials: %+v", cfg)
	}
	if cfg.ESuiteHTTPTimeout != 1500*time.Millisecond {
		t.Fatalf("unexpected upstream timeout: %s", cfg.ESuiteHTTPTimeout)
	}
	if cfg.ESuiteMaxAttempts != 3 {
		t.Fatalf("unexpected upstream max attempts: %d", cfg.ESuiteMaxAttempts)
	}
	if cfg.RateLimitMax != 20 || cfg.RateLimitWindow != time.Minute {
		t.Fatalf("unexpected rate limit config: %d %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example.com" {
		t.Fatalf("unexpected cors origins: %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadRequiredValues(t *testing.T) {
	if _, err := LoadForTests(map[string]string{
		"REDIS_URL":       "",
		"ESUITE_API_HOST": "https://esuite.example.com",
	}); err == nil {
		t.Fatal("expected error when REDIS_URL is missing")
	}
	if _, err := LoadForTests(map[string]string{
		"REDIS_URL":       "redis://localhost:6379/0",
		"ESUITE_API_HOST": "",
	}); err == nil {
		t.Fatal("expected error when ESUITE_API_HOST is missing")
	}
}
