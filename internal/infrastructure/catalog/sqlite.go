package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/supplierlens/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore is a listing catalog in a local SQLite file.
// Searches go through a read-only handle; imports use a single writer.
type SQLiteStore struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

// OpenSQLite opens or creates the catalog database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	s := &SQLiteStore{writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}

	readDB, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}
	s.readDB = readDB
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS supplier_products (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			price         REAL NOT NULL DEFAULT 0,
			currency      TEXT NOT NULL DEFAULT '',
			supplier_url  TEXT NOT NULL DEFAULT '',
			image_url     TEXT NOT NULL DEFAULT '',
			supplier_name TEXT NOT NULL DEFAULT '',
			updated_at    DATETIME NOT NULL,
			search_text   TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_supplier_products_updated ON supplier_products(updated_at DESC);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return s.migrateSearchText()
}

// migrateSearchText adds and backfills search_text on catalogs created before
// the column existed
func (s *SQLiteStore) migrateSearchText() error {
	var present int
	if err := s.writeDB.QueryRow(
		`SELECT count(*) FROM pragma_table_info('supplier_products') WHERE name = 'search_text'`,
	).Scan(&present); err != nil {
		return fmt.Errorf("inspecting schema: %w", err)
	}
	if present > 0 {
		return nil
	}
	if _, err := s.writeDB.Exec(`ALTER TABLE supplier_products ADD COLUMN search_text TEXT NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("adding search_text: %w", err)
	}

	rows, err := s.writeDB.Query(`SELECT id, title, description FROM supplier_products`)
	if err != nil {
		return fmt.Errorf("reading listings for backfill: %w", err)
	}
	backfill := map[string]string{}
	for rows.Next() {
		var id, title, description string
		if err := rows.Scan(&id, &title, &description); err != nil {
			rows.Close()
			return fmt.Errorf("scanning listing for backfill: %w", err)
		}
		backfill[id] = searchText(title, description)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading listings for backfill: %w", err)
	}

	for id, text := range backfill {
		if _, err := s.writeDB.Exec(`UPDATE supplier_products SET search_text = ? WHERE id = ?`, text, id); err != nil {
			return fmt.Errorf("backfilling search_text: %w", err)
		}
	}
	return nil
}

// searchText is the Unicode-folded text SearchListings matches against.
// SQLite's lower() only folds ASCII, so folding happens here.
func searchText(title, description string) string {
	return strings.ToLower(title) + "\n" + strings.ToLower(description)
}

// Close releases both database handles
func (s *SQLiteStore) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// UpsertListings inserts or replaces listings in one transaction. Listings
// without an ID are keyed by their supplier URL; those with neither are skipped.
func (s *SQLiteStore) UpsertListings(ctx context.Context, listings []domain.CatalogListing) error {
	tx, err := s.writeDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO supplier_products (id, title, description, price, currency, supplier_url, image_url, supplier_name, updated_at, search_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			price = excluded.price,
			currency = excluded.currency,
			supplier_url = excluded.supplier_url,
			image_url = excluded.image_url,
			supplier_name = excluded.supplier_name,
			updated_at = excluded.updated_at,
			search_text = excluded.search_text
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, l := range listings {
		updated := l.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}
		id := l.ID
		if id == "" {
			id = l.SupplierURL
		}
		if id == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx,
			id, l.Title, l.Description, l.Price, l.Currency,
			l.SupplierURL, l.ImageURL, l.SupplierName, updated.UTC(),
			searchText(l.Title, l.Description),
		); err != nil {
			return fmt.Errorf("upserting listing %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// SearchListings returns listings whose title or description contains text,
// ignoring case, most recently updated first
func (s *SQLiteStore) SearchListings(ctx context.Context, text string, limit int) ([]domain.CatalogListing, error) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	pattern := "%" + escapeLike(needle) + "%"
	rows, err := s.readDB.QueryContext(ctx, `
		SELECT id, title, description, price, currency, supplier_url, image_url, supplier_name, updated_at
		FROM supplier_products
		WHERE search_text LIKE ? ESCAPE '\'
		ORDER BY updated_at DESC, id
		LIMIT ?
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	var listings []domain.CatalogListing
	for rows.Next() {
		var l domain.CatalogListing
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.Currency,
			&l.SupplierURL, &l.ImageURL, &l.SupplierName, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

// escapeLike neutralizes LIKE wildcards in user text
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
