package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pingTimeout  = 1 * time.Second
	queryTimeout = 3 * time.Second

	pgUniqueCode = "23505"
)

// PostgresStore reads products from Postgres through database/sql. Images
// are kept as a JSON array in a text column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS products (
	id                  INTEGER PRIMARY KEY,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	price               NUMERIC(12,2) NOT NULL CHECK (price >= 0),
	discount_percentage NUMERIC(5,2) NOT NULL DEFAULT 0,
	rating              NUMERIC(3,2) NOT NULL DEFAULT 0,
	stock               INTEGER NOT NULL DEFAULT 0,
	brand               TEXT NOT NULL DEFAULT '',
	category            TEXT NOT NULL DEFAULT '',
	thumbnail           TEXT NOT NULL DEFAULT '',
	images              TEXT NOT NULL DEFAULT '[]'
)`

// EnsureSchema creates the products table and, when it is empty, loads seed.
// Losing a seeding race against another instance is not an error.
func (s *PostgresStore) EnsureSchema(ctx context.Context, seed []Product) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create products table: %w", err)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&n); err != nil {
		return fmt.Errorf("count products: %w", err)
	}
	if n > 0 || len(seed) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO products (id, title, description, price, discount_percentage, rating, stock, brand, category, thumbnail, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range seed {
		images, err := json.Marshal(p.Images)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Title, p.Description, p.Price, p.DiscountPercentage, p.Rating,
			p.Stock, p.Brand, p.Category, p.Thumbnail, string(images),
		); err != nil {
			if isUniqueViolation(err) {
				return nil
			}
			return fmt.Errorf("seed product %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil && !isUniqueViolation(err) {
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueCode
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return withTimeout(ctx, pingTimeout, func(ctx context.Context) error {
		return s.db.PingContext(ctx)
	})
}

func (s *PostgresStore) List(ctx context.Context, skip, limit int) ([]Product, int, error) {
	var (
		out   []Product
		total int
	)

	err := withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
			return err
		}

		rows, err := s.db.QueryContext(ctx, `
			SELECT id, title, description, price, discount_percentage, rating, stock, brand, category, thumbnail, images
			FROM products
			ORDER BY id ASC
			LIMIT $1 OFFSET $2
		`, limitArg(limit), skip)
		if err != nil {
			return err
		}
		defer rows.Close()

		out = make([]Product, 0, 16)
		for rows.Next() {
			p, err := scanProduct(rows)
			if err != nil {
				return err
			}
			out = append(out, p)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *PostgresStore) Get(ctx context.Context, id int) (Product, bool, error) {
	var (
		p   Product
		err error
	)

	err = withTimeout(ctx, queryTimeout, func(ctx context.Context) error {
		row := s.db.QueryRowContext(ctx, `
			SELECT id, title, description, price, discount_percentage, rating, stock, brand, category, thumbnail, images
			FROM products
			WHERE id = $1
		`, id)
		p, err = scanProduct(row)
		return err
	})

	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, err
	}
	return p, true, nil
}

// limitArg maps a non-positive limit to LIMIT NULL, which Postgres treats as
// no limit.
func limitArg(limit int) sql.NullInt64 {
	if limit <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(limit), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(r rowScanner) (Product, error) {
	var (
		p      Product
		images string
	)
	if err := r.Scan(
		&p.ID, &p.Title, &p.Description, &p.Price, &p.DiscountPercentage, &p.Rating,
		&p.Stock, &p.Brand, &p.Category, &p.Thumbnail, &images,
	); err != nil {
		return Product{}, err
	}
	if err := json.Unmarshal([]byte(images), &p.Images); err != nil {
		return Product{}, fmt.Errorf("decode images of product %d: %w", p.ID, err)
	}
	return p, nil
}

func withTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	return fn(ctx)
}
