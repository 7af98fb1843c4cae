package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supplierlens/backend/internal/domain"
	"github.com/supplierlens/backend/internal/infrastructure/catalog"
)

const seedJSON = `[
	{"id": "lamp-1", "title": "LED desk lamp", "price": 4.5, "currency": "USD", "supplier_url": "https://s.example/lamp-1"},
	{"id": "mug-1", "title": "Ceramic mug", "price": 1.2, "currency": "USD", "supplier_url": "https://s.example/mug-1"}
]`

// isolate runs the command in an empty directory with no source credentials
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	for _, key := range []string{
		"SUPPLIERLENS_ALIEXPRESS_API_KEY",
		"SUPPLIERLENS_FIRECRAWL_API_KEY",
		"SUPPLIERLENS_CATALOG_TYPE",
		"SUPPLIERLENS_CATALOG_SEED_FILE",
		"SUPPLIERLENS_CATALOG_PATH",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("SUPPLIERLENS_SERVER_ENVIRONMENT", "test")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeSeed(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedJSON), 0o644))
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "finder ")
	assert.Contains(t, out, "supplierlens-backend")
}

func TestSearchCmd_SeededCatalog(t *testing.T) {
	dir := isolate(t)
	t.Setenv("SUPPLIERLENS_CATALOG_SEED_FILE", writeSeed(t, dir))

	out, err := execute(t, "search", "--title", "desk lamp", "--price", "19,90 €")
	require.NoError(t, err)

	var body struct {
		Success        bool                     `json:"success"`
		Suppliers      []domain.SupplierListing `json:"suppliers"`
		RetailPrice    float64                  `json:"retail_price"`
		RetailCurrency string                   `json:"retail_currency"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &body))

	assert.True(t, body.Success)
	require.Len(t, body.Suppliers, 1)
	assert.Equal(t, "LED desk lamp", body.Suppliers[0].Title)
	assert.Equal(t, 19.9, body.RetailPrice)
	assert.Equal(t, "EUR", body.RetailCurrency)
}

func TestSearchCmd_NothingFound(t *testing.T) {
	isolate(t)

	out, err := execute(t, "search", "--title", "garden hose")
	require.NoError(t, err)

	assert.Contains(t, out, `"success": true`)
	assert.Contains(t, out, `"suppliers": []`)
	assert.Contains(t, out, `"best_deal": null`)
}

func TestSearchCmd_MissingProduct(t *testing.T) {
	isolate(t)

	out, err := execute(t, "search", "--price", "10")

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	assert.Contains(t, out, "Titre ou image requis")
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name  string
		flags searchFlags
		want  domain.SearchQuery
	}{
		{
			name:  "explicit currency wins",
			flags: searchFlags{title: " Lamp ", price: "$12.50", currency: "gbp", method: "text"},
			want:  domain.SearchQuery{Title: "Lamp", RetailPrice: 12.5, RetailCurrency: "gbp", Method: domain.SearchMethodText},
		},
		{
			name:  "currency detected from price",
			flags: searchFlags{image: "https://cdn.example/a.jpg", price: "19,90 €", method: "image"},
			want:  domain.SearchQuery{ImageRef: "https://cdn.example/a.jpg", RetailPrice: 19.9, RetailCurrency: "EUR", Method: domain.SearchMethodImage},
		},
		{
			name:  "no price",
			flags: searchFlags{title: "Lamp"},
			want:  domain.SearchQuery{Title: "Lamp", Method: domain.SearchMethodUnspecified},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildQuery(tt.flags))
		})
	}
}

func TestCatalogImportCmd(t *testing.T) {
	dir := isolate(t)
	seed := writeSeed(t, dir)
	dbPath := filepath.Join(dir, "data", "catalog.db")

	out, err := execute(t, "catalog", "import", "--file", seed, "--db", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 listings")

	store, err := catalog.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.SearchListings(context.Background(), "mug", 5)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mug-1", got[0].ID)
}

func TestCatalogImportCmd_DefaultPath(t *testing.T) {
	dir := isolate(t)
	seed := writeSeed(t, dir)

	_, err := execute(t, "catalog", "import", "--file", seed)
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "data", "catalog.db"))
}

func TestCatalogImportCmd_RequiresFile(t *testing.T) {
	isolate(t)

	_, err := execute(t, "catalog", "import")
	assert.Error(t, err)
}
