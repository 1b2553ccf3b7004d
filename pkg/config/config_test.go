package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Catalog.URL != DefaultCatalogURL {
		t.Fatalf("catalog url=%q", cfg.Catalog.URL)
	}
	if cfg.Catalog.Timeout != 3*time.Second {
		t.Fatalf("catalog timeout=%s", cfg.Catalog.Timeout)
	}
	if cfg.Query.StaleTime != time.Minute {
		t.Fatalf("stale time=%s", cfg.Query.StaleTime)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("redis should be disabled without REDIS_URL")
	}
	if got := cfg.App.Addr("8080"); got != ":8080" {
		t.Fatalf("addr=%q", got)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("cors=%v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("default env must be dev, got %q", cfg.App.Env)
	}
	if cfg.Profile.Name != "Guest" {
		t.Fatalf("profile name=%q", cfg.Profile.Name)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_URL", "http://catalog:8082")
	t.Setenv("QUERY_STALE_TIME", "5s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("CART_RATE_LIMIT", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := cfg.App.Addr("8080"); got != ":9090" {
		t.Fatalf("addr=%q", got)
	}
	if cfg.Catalog.URL != "http://catalog:8082" {
		t.Fatalf("catalog url=%q", cfg.Catalog.URL)
	}
	if cfg.Query.StaleTime != 5*time.Second {
		t.Fatalf("stale time=%s", cfg.Query.StaleTime)
	}
	if !cfg.Redis.Enabled() {
		t.Fatalf("redis should be enabled")
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("cors=%v", cfg.CORS.AllowedOrigins)
	}
	if cfg.RateLimit.CartLimit != 10 {
		t.Fatalf("cart limit=%d", cfg.RateLimit.CartLimit)
	}
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	t.Setenv("CATALOG_TIMEOUT", "0s")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}

func TestLoadRequiresMetricsTokenOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "prod")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing METRICS_TOKEN in prod")
	}

	t.Setenv("METRICS_ENABLED", "false")
	if _, err := Load(); err != nil {
		t.Fatalf("metrics disabled needs no token: %v", err)
	}

	t.Setenv("METRICS_ENABLED", "true")
	t.Setenv("METRICS_TOKEN", "scrape")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.IsDev() {
		t.Fatalf("prod must not report dev")
	}
}
