package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catalogo/catalog-service/internal/database"
	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/importer"
	"github.com/catalogo/catalog-service/internal/mapping"
	"github.com/catalogo/catalog-service/internal/validation"
)

var (
	importName        string
	importDescription string
	importForce       bool
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a spreadsheet as a new catalog",
	Long: `Parse, validate and import a local XLSX or CSV file as a brand new
catalog with a single draft version. Validation errors abort the import
unless --force is given; warnings never block.`,
	Example: `  catalog-service import ./data/catalogo.xlsx --name "Catálogo Mayo"
  catalog-service import ./data/catalogo.csv --name "Ofertas" --description "Ofertas de verano"`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importName, "name", "", "Catalog name (required)")
	importCmd.Flags().StringVar(&importDescription, "description", "", "Catalog description")
	importCmd.Flags().BoolVar(&importForce, "force", false, "Import even when validation reports errors")
	importCmd.MarkFlagRequired("name")
}

func runImport(cmd *cobra.Command, args []string) error {
	sheet, err := loadSheet(args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	systemFields := fields.All()
	mappings := mapping.AutoMap(systemFields, sheet.Columns)

	result := validation.Validate(sheet.Rows, mappings, systemFields)
	logger.Info().
		Int("rows", result.TotalRows).
		Int("errors", result.ErrorCount).
		Int("warnings", result.WarningCount).
		Msg("Validation finished")

	if !result.IsValid && !importForce {
		return fmt.Errorf("validation failed with %d errors (use --force to import anyway)", result.ErrorCount)
	}

	var description *string
	if importDescription != "" {
		description = &importDescription
	}

	orchestrator := importer.New(database.NewCatalogStore())
	res, err := orchestrator.FreshImport(context.Background(), importer.FreshParams{
		CatalogName:        importName,
		CatalogDescription: description,
		Rows:               sheet.Rows,
		Mappings:           mappings,
		OnProgress: func(percent int, message string) {
			logger.Info().Int("percent", percent).Msg(message)
		},
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	for _, be := range res.BatchErrors {
		logger.Warn().
			Int("batch", be.Batch).
			Int("items", be.Count).
			Str("error", be.Err).
			Msg("Batch failed")
	}

	fmt.Printf("\nCatalog:  %s\n", res.CatalogID)
	fmt.Printf("Version:  %s\n", res.VersionID)
	fmt.Printf("Imported: %d items", res.ItemsImported)
	if failed := failedItemCount(res.BatchErrors); failed > 0 {
		fmt.Printf(" (%d failed)", failed)
	}
	fmt.Println()
	return nil
}

func failedItemCount(batchErrors []importer.BatchError) int {
	total := 0
	for _, be := range batchErrors {
		total += be.Count
	}
	return total
}
