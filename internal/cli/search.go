package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/supplierlens/backend/config"
	"github.com/supplierlens/backend/internal/app"
	httpDelivery "github.com/supplierlens/backend/internal/delivery/http"
	"github.com/supplierlens/backend/internal/domain"
	"github.com/supplierlens/backend/internal/logging"
	"github.com/supplierlens/backend/internal/usecase"
)

type searchFlags struct {
	title    string
	image    string
	price    string
	currency string
	method   string
}

func newSearchCmd() *cobra.Command {
	var flags searchFlags

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search every configured source for a product",
		Example: `  finder search --title "wireless earbuds" --price 29.90 --currency EUR
  finder search --image https://cdn.example.com/earbuds-white.jpg --method image`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.title, "title", "", "product title")
	cmd.Flags().StringVar(&flags.image, "image", "", "product image URL")
	cmd.Flags().StringVar(&flags.price, "price", "", "retail price, e.g. 19.90 or \"19,90 €\"")
	cmd.Flags().StringVar(&flags.currency, "currency", "", "retail currency code (default EUR)")
	cmd.Flags().StringVar(&flags.method, "method", "", "search method: text, image or both")
	return cmd
}

// buildQuery maps flags onto a query the same way the HTTP handler maps a request body
func buildQuery(flags searchFlags) domain.SearchQuery {
	price, detected := usecase.ParsePrice(flags.price)
	currency := strings.TrimSpace(flags.currency)
	if currency == "" && strings.TrimSpace(flags.price) != "" {
		currency = detected
	}
	return domain.SearchQuery{
		Title:          strings.TrimSpace(flags.title),
		ImageRef:       strings.TrimSpace(flags.image),
		RetailPrice:    price,
		RetailCurrency: currency,
		Method:         domain.ParseSearchMethod(flags.method),
	}
}

func runSearch(cmd *cobra.Command, flags searchFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := logging.New(cmd.ErrOrStderr(), cfg.Server.Environment)
	ctx := cmd.Context()

	store, err := app.OpenCatalog(ctx, cfg.Catalog)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	service := app.NewSupplierService(cfg, app.BuildFetchers(cfg, store, logger), logger, nil)

	query := buildQuery(flags)
	result, err := service.FindSuppliers(ctx, &query)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err != nil {
		msg := err.Error()
		if errors.Is(err, domain.ErrInvalidRequest) {
			msg = httpDelivery.MissingProductMessage
		}
		if encErr := enc.Encode(httpDelivery.ErrorResponse{Success: false, Error: msg}); encErr != nil {
			return encErr
		}
		return err
	}
	return enc.Encode(httpDelivery.SearchResponse{Success: true, SearchResult: result})
}
