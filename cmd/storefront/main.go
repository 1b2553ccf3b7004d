package main

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"MiniShop/internal/cart"
	"MiniShop/internal/catalogclient"
	"MiniShop/internal/query"
	"MiniShop/internal/storefront"
	"MiniShop/internal/theme"
	"MiniShop/pkg/config"
	"MiniShop/pkg/kit"
)

const redisDialTimeout = 3 * time.Second

func main() {
	service := "storefront"

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(service, cfg.App.LogLevel)
	defer func() { _ = logger.Sync() }()

	var (
		closers []io.Closer
		shared  *query.RedisShared
	)

	opts := query.Options{
		StaleTime: cfg.Query.StaleTime,
		Log:       logger,
	}
	if cfg.Redis.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), redisDialTimeout)
		rs, err := query.NewRedisShared(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			logger.Warn("redis unavailable, query cache stays local", zap.Error(err))
		} else {
			shared = rs
			opts.Shared = rs
			closers = append(closers, rs)
		}
	}

	reg := prometheus.NewRegistry()
	opts.Registry = reg

	s := &storefront.Server{
		Catalog: catalogclient.NewClient(cfg.Catalog.URL, cfg.Catalog.Timeout),
		Queries: query.New(opts),
		Cart:    cart.NewStore(),
		Theme:   theme.NewStore(),
		Profile: storefront.Profile{
			Name:     cfg.Profile.Name,
			Subtitle: cfg.Profile.Subtitle,
		},
		Log: logger,
	}
	if shared != nil {
		s.Shared = shared
	}

	h := storefront.NewHandler(s, storefront.HTTPDeps{
		Log:            logger,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		CORSOrigins:    cfg.CORS.AllowedOrigins,
		CartRateLimit:  cfg.RateLimit.CartLimit,
		CartRateWindow: cfg.RateLimit.CartWindow,
	})

	logger.Info("storefront starting",
		zap.String("env", cfg.App.Env),
		zap.String("catalog_url", cfg.Catalog.URL),
		zap.String("cart_id", s.Cart.ID()),
		zap.Bool("shared_cache", opts.Shared != nil),
	)

	serveErr := kit.RunHTTPServer(cfg.App.Addr("8080"), h, logger)

	var closeErr error
	for _, c := range closers {
		closeErr = multierr.Append(closeErr, c.Close())
	}
	if err := multierr.Combine(serveErr, closeErr); err != nil {
		logger.Fatal("storefront stopped", zap.Error(err))
	}
}
