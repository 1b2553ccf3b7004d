package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"MiniShop/internal/catalog"
	"MiniShop/pkg/config"
	"MiniShop/pkg/kit"
)

const schemaTimeout = 10 * time.Second

func main() {
	service := "catalog"

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := kit.NewLogger(service, cfg.App.LogLevel)
	defer func() { _ = logger.Sync() }()

	store, db, err := openStore(cfg.DB.DSN)
	if err != nil {
		logger.Fatal("open catalog store failed", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	s := &catalog.Server{Store: store, Log: logger}
	h := catalog.NewHandler(s, catalog.HTTPDeps{
		Log:            logger,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	logger.Info("catalog starting", zap.Bool("postgres", db != nil))

	err = kit.RunHTTPServer(cfg.App.Addr("8082"), h, logger)
	if db != nil {
		err = multierr.Append(err, db.Close())
	}
	if err != nil {
		logger.Fatal("catalog stopped", zap.Error(err))
	}
}

// openStore uses Postgres when dsn is set and the seeded in-memory store
// otherwise. db is nil for the memory store.
func openStore(dsn string) (catalog.Store, *sql.DB, error) {
	if dsn == "" {
		return catalog.NewStore(), nil, nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), schemaTimeout)
	defer cancel()

	ps := catalog.NewPostgresStore(db)
	if err := ps.EnsureSchema(ctx, catalog.SeedProducts()); err != nil {
		return nil, nil, multierr.Append(err, db.Close())
	}
	return ps, db, nil
}
