// Package app wires configuration into the supplier search service. It is
// shared by the HTTP server and the finder CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/supplierlens/backend/config"
	"github.com/supplierlens/backend/internal/domain"
	"github.com/supplierlens/backend/internal/infrastructure/aliexpress"
	"github.com/supplierlens/backend/internal/infrastructure/catalog"
	"github.com/supplierlens/backend/internal/infrastructure/firecrawl"
	"github.com/supplierlens/backend/internal/infrastructure/marketplace"
	"github.com/supplierlens/backend/internal/infrastructure/websearch"
	"github.com/supplierlens/backend/internal/usecase"
)

// OpenCatalog opens the listing catalog selected by cfg
func OpenCatalog(ctx context.Context, cfg config.CatalogConfig) (catalog.Store, error) {
	switch cfg.Type {
	case "postgres":
		store, err := catalog.OpenPostgres(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "sqlite":
		store, err := catalog.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory", "":
		if cfg.SeedFile == "" {
			return catalog.NewMemoryStore(), nil
		}
		store, err := catalog.LoadMemoryStore(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown catalog type %q", cfg.Type)
	}
}

// BuildFetchers returns the supplier sources in registry order: catalog,
// AliExpress, Alibaba, Made-in-China, web search. Sources without
// credentials are still registered and report themselves as not configured.
func BuildFetchers(cfg *config.Config, store domain.ListingStore, logger *slog.Logger) []domain.SupplierFetcher {
	debug := cfg.Server.Environment == "development"

	aliClient := aliexpress.NewClient(cfg.AliExpress.APIKey, cfg.AliExpress.BaseURL)
	aliClient.SetDebug(debug)

	fcClient := firecrawl.NewClient(cfg.Firecrawl.APIKey, cfg.Firecrawl.BaseURL)
	fcClient.SetDebug(debug)

	if !aliClient.Configured() {
		logger.Warn("source not configured", "source", aliexpress.Platform, "env", "SUPPLIERLENS_ALIEXPRESS_API_KEY")
	}
	if !fcClient.Configured() {
		logger.Warn("scraping sources not configured", "sources", []string{"Alibaba", "Made-in-China", "Web search"}, "env", "SUPPLIERLENS_FIRECRAWL_API_KEY")
	}

	return []domain.SupplierFetcher{
		catalog.NewFetcher(store),
		aliexpress.NewFetcher(aliClient),
		marketplace.NewScrapeFetcher(marketplace.Alibaba(), fcClient),
		marketplace.NewScrapeFetcher(marketplace.MadeInChina(), fcClient),
		websearch.NewFetcher(fcClient),
	}
}

// NewSupplierService builds the orchestrator from configuration
func NewSupplierService(cfg *config.Config, fetchers []domain.SupplierFetcher, logger *slog.Logger, recorder usecase.FetchRecorder) *usecase.SupplierService {
	serviceConfig := usecase.SupplierServiceConfig{
		FetchTimeout: cfg.Search.FetchTimeout,
		MaxResults:   cfg.Search.MaxResults,
		Logger:       logger,
		Recorder:     recorder,
	}
	if len(cfg.Rates.Ranking) > 0 {
		serviceConfig.RankingRates = usecase.NewRateTable(cfg.Rates.Ranking)
	}
	if len(cfg.Rates.Margin) > 0 {
		serviceConfig.MarginRates = usecase.NewRateTable(cfg.Rates.Margin)
	}
	return usecase.NewSupplierService(fetchers, serviceConfig)
}
