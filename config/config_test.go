package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"SUPPLIERLENS_SERVER_PORT",
	"SUPPLIERLENS_SERVER_ENVIRONMENT",
	"SUPPLIERLENS_ALIEXPRESS_API_KEY",
	"SUPPLIERLENS_FIRECRAWL_API_KEY",
	"SUPPLIERLENS_FIRECRAWL_BASE_URL",
	"SUPPLIERLENS_CATALOG_TYPE",
	"SUPPLIERLENS_CATALOG_DSN",
	"SUPPLIERLENS_CATALOG_PATH",
	"SUPPLIERLENS_SEARCH_FETCH_TIMEOUT",
	"SUPPLIERLENS_SEARCH_MAX_RESULTS",
	"SUPPLIERLENS_RATELIMIT_PER_IP",
	"SUPPLIERLENS_RATELIMIT_BURST",
}

// isolate clears every known variable and runs Load from an empty directory
// so a developer's config.yaml cannot leak into the test
func isolate(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func TestLoad(t *testing.T) {
	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		isolate(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, "development", cfg.Server.Environment)
		assert.Equal(t, []string{"chrome-extension://*"}, cfg.Server.AllowedOrigins)
		assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
		assert.Empty(t, cfg.AliExpress.APIKey)
		assert.Equal(t, "https://aliexpress-datahub.p.rapidapi.com", cfg.AliExpress.BaseURL)
		assert.Equal(t, "https://api.firecrawl.dev", cfg.Firecrawl.BaseURL)
		assert.Equal(t, "memory", cfg.Catalog.Type)
		assert.Equal(t, 25*time.Second, cfg.Search.FetchTimeout)
		assert.Equal(t, 20, cfg.Search.MaxResults)
		assert.Equal(t, 30, cfg.RateLimit.PerIP)
		assert.Equal(t, 10, cfg.RateLimit.Burst)
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		isolate(t)
		t.Setenv("SUPPLIERLENS_SERVER_PORT", "9090")
		t.Setenv("SUPPLIERLENS_SERVER_ENVIRONMENT", "production")
		t.Setenv("SUPPLIERLENS_ALIEXPRESS_API_KEY", "rapid-key")
		t.Setenv("SUPPLIERLENS_FIRECRAWL_API_KEY", "fc-key")
		t.Setenv("SUPPLIERLENS_CATALOG_TYPE", "postgres")
		t.Setenv("SUPPLIERLENS_CATALOG_DSN", "postgres://localhost/supplierlens")
		t.Setenv("SUPPLIERLENS_SEARCH_FETCH_TIMEOUT", "10s")
		t.Setenv("SUPPLIERLENS_SEARCH_MAX_RESULTS", "5")
		t.Setenv("SUPPLIERLENS_RATELIMIT_PER_IP", "120")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, "production", cfg.Server.Environment)
		assert.Equal(t, "rapid-key", cfg.AliExpress.APIKey)
		assert.Equal(t, "fc-key", cfg.Firecrawl.APIKey)
		assert.Equal(t, "postgres", cfg.Catalog.Type)
		assert.Equal(t, "postgres://localhost/supplierlens", cfg.Catalog.DSN)
		assert.Equal(t, 10*time.Second, cfg.Search.FetchTimeout)
		assert.Equal(t, 5, cfg.Search.MaxResults)
		assert.Equal(t, 120, cfg.RateLimit.PerIP)
	})

	t.Run("reads rate tables from config file", func(t *testing.T) {
		isolate(t)
		yaml := "rates:\n  ranking:\n    usd: 1\n    eur: 1.1\n  margin:\n    EUR: 1\n    USD: 0.9\n"
		require.NoError(t, os.WriteFile(filepath.Join(".", "config.yaml"), []byte(yaml), 0o644))

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, 1.1, cfg.Rates.Ranking["eur"])
		assert.Equal(t, 0.9, cfg.Rates.Margin["usd"])
	})

	t.Run("rejects invalid catalog type", func(t *testing.T) {
		isolate(t)
		t.Setenv("SUPPLIERLENS_CATALOG_TYPE", "redis")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog type must be")
	})

	t.Run("rejects postgres catalog without DSN", func(t *testing.T) {
		isolate(t)
		t.Setenv("SUPPLIERLENS_CATALOG_TYPE", "postgres")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog DSN is required")
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Catalog: CatalogConfig{Type: "memory"},
			Search:  SearchConfig{FetchTimeout: time.Second, MaxResults: 20},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid memory", mutate: func(c *Config) {}},
		{name: "sqlite with path", mutate: func(c *Config) { c.Catalog = CatalogConfig{Type: "sqlite", Path: "x.db"} }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Catalog = CatalogConfig{Type: "sqlite"} }, wantErr: true},
		{name: "zero fetch timeout", mutate: func(c *Config) { c.Search.FetchTimeout = 0 }, wantErr: true},
		{name: "too many results", mutate: func(c *Config) { c.Search.MaxResults = 21 }, wantErr: true},
		{name: "zero results", mutate: func(c *Config) { c.Search.MaxResults = 0 }, wantErr: true},
		{name: "negative burst", mutate: func(c *Config) { c.RateLimit.Burst = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
