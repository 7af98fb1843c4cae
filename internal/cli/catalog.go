package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/supplierlens/backend/config"
	"github.com/supplierlens/backend/internal/infrastructure/catalog"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the local listing catalog",
	}
	cmd.AddCommand(newCatalogImportCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	var file, dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a JSON seed file into the SQLite catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("load configuration: %w", err)
				}
				dbPath = cfg.Catalog.Path
			}
			return runCatalogImport(cmd, file, dbPath)
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON array of listings to import")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default catalog.path)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runCatalogImport(cmd *cobra.Command, file, dbPath string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()

	listings, err := catalog.ReadSeed(f)
	if err != nil {
		return err
	}

	store, err := catalog.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpsertListings(cmd.Context(), listings); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "imported %d listings into %s\n", len(listings), dbPath)
	return nil
}
