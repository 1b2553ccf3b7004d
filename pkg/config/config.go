package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev = "dev"

	DefaultCatalogURL = "https://dummyjson.com"
)

type Config struct {
	App       AppConfig
	Catalog   CatalogConfig
	Query     QueryConfig
	Redis     RedisConfig
	DB        DBConfig
	Metrics   MetricsConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Profile   ProfileConfig
}

// Load reads the process environment. Mains call godotenv first so a local
// .env file can fill in anything the shell does not set.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Catalog.URL) == "" {
		return fmt.Errorf("CATALOG_URL must not be empty")
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("CATALOG_TIMEOUT must be positive, got %s", c.Catalog.Timeout)
	}
	if c.Query.StaleTime < 0 {
		return fmt.Errorf("QUERY_STALE_TIME must not be negative, got %s", c.Query.StaleTime)
	}
	// an empty token locks /metrics; outside dev that is a misconfiguration
	if !c.App.IsDev() && c.Metrics.Enabled && c.Metrics.Token == "" {
		return fmt.Errorf("METRICS_TOKEN is required when APP_ENV=%s and metrics are enabled", c.App.Env)
	}
	return nil
}

type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"dev"`
	Port     string `envconfig:"PORT"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// Addr returns the listen address, using def when PORT is unset.
func (a AppConfig) Addr(def string) string {
	if a.Port != "" {
		return ":" + a.Port
	}
	return ":" + def
}

type CatalogConfig struct {
	URL     string        `envconfig:"CATALOG_URL" default:"https://dummyjson.com"`
	Timeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"3s"`
}

type QueryConfig struct {
	StaleTime time.Duration `envconfig:"QUERY_STALE_TIME" default:"60s"`
}

type RedisConfig struct {
	URL string `envconfig:"REDIS_URL"`
}

func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type DBConfig struct {
	DSN string `envconfig:"DB_DSN"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Token   string `envconfig:"METRICS_TOKEN"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

type RateLimitConfig struct {
	CartLimit  int           `envconfig:"CART_RATE_LIMIT" default:"120"`
	CartWindow time.Duration `envconfig:"CART_RATE_WINDOW" default:"60s"`
}

type ProfileConfig struct {
	Name     string `envconfig:"PROFILE_NAME" default:"Guest"`
	Subtitle string `envconfig:"PROFILE_SUBTITLE" default:"MiniShop"`
}
