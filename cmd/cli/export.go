package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/catalogo/catalog-service/internal/database"
	"github.com/catalogo/catalog-service/internal/export"
)

var (
	exportVersionID       string
	exportFormat          string
	exportOut             string
	exportIncludeInactive bool
	exportOnlySelected    bool
	exportCategory        string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <catalogId>",
	Short: "Export a catalog version to XLSX or CSV",
	Long: `Export the items of a catalog version to a spreadsheet file. Without
--version the latest version is exported. Inactive items are skipped unless
--include-inactive is given.`,
	Example: `  catalog-service export cat_0CL2KwaB3cD5eF7gH9iJ1k
  catalog-service export cat_0CL2KwaB3cD5eF7gH9iJ1k --format csv --only-selected`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportVersionID, "version", "", "Version ID (default: latest)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "Output format: xlsx or csv")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: derived from catalog name)")
	exportCmd.Flags().BoolVar(&exportIncludeInactive, "include-inactive", false, "Include inactive items")
	exportCmd.Flags().BoolVar(&exportOnlySelected, "only-selected", false, "Export only selected items")
	exportCmd.Flags().StringVar(&exportCategory, "category", "", "Export only this category")
}

func runExport(cmd *cobra.Command, args []string) error {
	catalogID := args[0]
	if exportFormat != "xlsx" && exportFormat != "csv" {
		return fmt.Errorf("invalid format: %s (use 'xlsx' or 'csv')", exportFormat)
	}

	store := database.NewCatalogStore()
	ctx := context.Background()

	catalog, err := store.GetCatalog(ctx, catalogID)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	versionID := exportVersionID
	if versionID == "" {
		version, err := store.LatestVersion(ctx, catalogID)
		if err != nil {
			return fmt.Errorf("failed to resolve latest version: %w", err)
		}
		versionID = version.ID
		logger.Info().Str("version", versionID).Int("number", version.VersionNumber).Msg("Exporting latest version")
	}

	items, err := store.ListItems(ctx, versionID)
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	opts := export.Options{
		CatalogName:     catalog.Name,
		IncludeInactive: exportIncludeInactive,
		OnlySelected:    exportOnlySelected,
		Category:        exportCategory,
	}

	var data []byte
	if exportFormat == "xlsx" {
		data, err = export.CatalogXLSX(items, opts)
	} else {
		data, err = export.CatalogCSV(items, opts)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	outFile := exportOut
	if outFile == "" {
		outFile = export.Filename(opts, exportFormat, time.Now())
	}
	if err := os.WriteFile(outFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}

	fmt.Printf("Exported %d items to %s\n", len(export.Filter(items, opts)), outFile)
	return nil
}
