package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"grocer/internal/domain"
)

// PostgresStore handles interactions with the PostgreSQL database.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PostgresStore) Close() {
	s.db.Close()
}

// EnsureSchema creates the products table on startup if it does not exist.
// The unique constraint on name is the dedup boundary for persistence; the
// unique constraint on url is the external identity of a record.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS products (
			id       SERIAL PRIMARY KEY,
			name     TEXT NOT NULL UNIQUE,
			price    DOUBLE PRECISION NOT NULL,
			url      TEXT UNIQUE,
			category TEXT,
			store    TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_products_price ON products (price);
	`)
	return err
}

// ExistingNames returns which of the candidate names already have a stored
// row, in a single round trip.
func (s *PostgresStore) ExistingNames(ctx context.Context, names []string) (map[string]struct{}, error) {
	rows, err := s.db.Query(ctx, `SELECT name FROM products WHERE name = ANY($1)`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		existing[name] = struct{}{}
	}
	return existing, rows.Err()
}

// InsertProducts bulk-inserts rows within a single transaction and commits
// once. ON CONFLICT DO NOTHING keeps a concurrent duplicate from aborting
// the whole batch; existing rows are never updated.
func (s *PostgresStore) InsertProducts(ctx context.Context, products []domain.StoredProduct) (int, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(
			`INSERT INTO products (name, price, url, category, store)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (name) DO NOTHING`,
			p.Name, p.Price, p.URL, nullable(p.Category), nullable(p.Store),
		)
	}

	results := tx.SendBatch(ctx, batch)
	inserted := 0
	for range products {
		tag, err := results.Exec()
		if err != nil {
			results.Close()
			return 0, err
		}
		inserted += int(tag.RowsAffected())
	}
	if err := results.Close(); err != nil {
		return 0, err
	}
	return inserted, tx.Commit(ctx)
}

// ClosestByPrice returns up to limit rows with price <= target, ordered by
// absolute distance to the target, ties broken by ascending price.
func (s *PostgresStore) ClosestByPrice(ctx context.Context, target float64, limit int) ([]domain.StoredProduct, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, price, COALESCE(url, ''), COALESCE(category, ''), COALESCE(store, '')
		 FROM products
		 WHERE price <= $1
		 ORDER BY ABS(price - $1), price
		 LIMIT $2`,
		target, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.StoredProduct
	for rows.Next() {
		var p domain.StoredProduct
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.URL, &p.Category, &p.Store); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
