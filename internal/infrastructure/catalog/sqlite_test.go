package catalog

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplierlens/backend/internal/domain"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "catalog", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_SearchListings(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertListings(ctx, seedListings()))

	got, err := store.SearchListings(ctx, "Wireless Earbuds", 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, 6.5, got[1].Price)
	assert.Equal(t, "USD", got[1].Currency)
	assert.Equal(t, "https://s.example/a", got[1].SupplierURL)

	got, err = store.SearchListings(ctx, "earbuds", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = store.SearchListings(ctx, "", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteStore_UpsertReplaces(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertListings(ctx, seedListings()))
	require.NoError(t, store.UpsertListings(ctx, []domain.CatalogListing{
		{ID: "c", Title: "Yoga mat deluxe", Price: 7.25, Currency: "USD"},
	}))

	got, err := store.SearchListings(ctx, "yoga", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Yoga mat deluxe", got[0].Title)
	assert.Equal(t, 7.25, got[0].Price)
	assert.False(t, got[0].UpdatedAt.IsZero())
}

func TestSQLiteStore_WildcardsAreLiteral(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertListings(ctx, []domain.CatalogListing{
		{ID: "1", Title: "100% cotton tee"},
		{ID: "2", Title: "1000 cotton swabs"},
	}))

	got, err := store.SearchListings(ctx, "100%", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)
}

func TestSQLiteStore_KeysByURLWithoutID(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertListings(ctx, []domain.CatalogListing{
		{Title: "Phone stand", Price: 1.1, Currency: "USD", SupplierURL: "https://s.example/stand"},
		{Title: "Phone stand without any link", Price: 0.9, Currency: "USD"},
	}))

	got, err := store.SearchListings(ctx, "phone stand", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "https://s.example/stand", got[0].ID)
}

func TestSQLiteStore_FoldsNonASCIICase(t *testing.T) {
	store := openTestSQLite(t)
	ctx := context.Background()

	listings := []domain.CatalogListing{
		{ID: "fr-1", Title: "ÉCOUTEURS sans fil", Price: 3.9, Currency: "EUR"},
		{ID: "fr-2", Title: "Support", Description: "Pour TÉLÉPHONE et tablette", Price: 1.5, Currency: "EUR"},
	}
	require.NoError(t, store.UpsertListings(ctx, listings))

	got, err := store.SearchListings(ctx, "écouteurs", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fr-1", got[0].ID)

	got, err = store.SearchListings(ctx, "Téléphone", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fr-2", got[0].ID)

	memory := NewMemoryStore()
	memory.Put(listings...)
	fromMemory, err := memory.SearchListings(ctx, "écouteurs", 10)
	require.NoError(t, err)
	assert.Len(t, fromMemory, len(got))
}

func TestSQLiteStore_BackfillsSearchTextOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	legacy, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = legacy.Exec(`
		CREATE TABLE supplier_products (
			id            TEXT PRIMARY KEY,
			title         TEXT NOT NULL,
			description   TEXT NOT NULL DEFAULT '',
			price         REAL NOT NULL DEFAULT 0,
			currency      TEXT NOT NULL DEFAULT '',
			supplier_url  TEXT NOT NULL DEFAULT '',
			image_url     TEXT NOT NULL DEFAULT '',
			supplier_name TEXT NOT NULL DEFAULT '',
			updated_at    DATETIME NOT NULL
		);
		INSERT INTO supplier_products (id, title, price, currency, updated_at)
		VALUES ('old-1', 'Lampe ÉTOILE', 2.5, 'EUR', '2024-01-01 00:00:00');
	`)
	require.NoError(t, err)
	require.NoError(t, legacy.Close())

	store, err := OpenSQLite(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.SearchListings(context.Background(), "étoile", 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "old-1", got[0].ID)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\`, escapeLike(`50% off_now \`))
}
