package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/supplierlens/backend/internal/domain"
)

// PostgresStore reads the supplier_products table of the shared database
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool to dsn and checks that it answers
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging catalog database: %w", err)
	}
	return NewPostgresStore(pool), nil
}

// NewPostgresStore wraps an existing pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Close releases the pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// SearchListings returns listings whose title or description contains text,
// ignoring case, most recently updated first
func (s *PostgresStore) SearchListings(ctx context.Context, text string, limit int) ([]domain.CatalogListing, error) {
	needle := strings.TrimSpace(text)
	if needle == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id::text, title, coalesce(description, ''), coalesce(price, 0)::float8,
		       coalesce(currency, ''), coalesce(supplier_url, ''), coalesce(image_url, ''),
		       coalesce(supplier_name, ''), updated_at
		FROM supplier_products
		WHERE title ILIKE $1 OR description ILIKE $1
		ORDER BY updated_at DESC, id
		LIMIT $2
	`, "%"+escapeLike(needle)+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}

	listings, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CatalogListing, error) {
		var l domain.CatalogListing
		err := row.Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.Currency,
			&l.SupplierURL, &l.ImageURL, &l.SupplierName, &l.UpdatedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning listings: %w", err)
	}
	return listings, nil
}
