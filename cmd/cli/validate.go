package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/catalogo/catalog-service/internal/export"
	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/mapping"
	"github.com/catalogo/catalog-service/internal/validation"
)

var (
	validateReport   string
	validateMaxShown int
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a spreadsheet against the system fields",
	Long: `Parse a local XLSX or CSV file, auto-map its columns and validate every
row. Errors block an import, warnings do not. With --report the findings are
also written to a CSV file.`,
	Example: `  catalog-service validate ./data/catalogo.xlsx
  catalog-service validate ./data/catalogo.csv --report errores.csv`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateReport, "report", "", "Write findings to this CSV file")
	validateCmd.Flags().IntVar(&validateMaxShown, "max-shown", 20, "Maximum findings printed to the terminal")
}

func runValidate(cmd *cobra.Command, args []string) error {
	sheet, err := loadSheet(args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	systemFields := fields.All()
	mappings := mapping.AutoMap(systemFields, sheet.Columns)
	result := validation.Validate(sheet.Rows, mappings, systemFields)

	fmt.Printf("\nValidation Results\n")
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Total rows:\t%d\n", result.TotalRows)
	fmt.Fprintf(w, "Valid rows:\t%d\n", result.ValidRows)
	fmt.Fprintf(w, "Errors:\t%d\n", result.ErrorCount)
	fmt.Fprintf(w, "Warnings:\t%d\n", result.WarningCount)
	fmt.Fprintf(w, "Duplicated codes:\t%d\n", len(result.Duplicates))
	w.Flush()

	if len(result.Errors) > 0 {
		fmt.Println()
		w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "ROW\tFIELD\tSEVERITY\tMESSAGE")
		shown := result.Errors
		if len(shown) > validateMaxShown {
			shown = shown[:validateMaxShown]
		}
		for _, e := range shown {
			fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Row, e.Field, e.Severity, e.Message)
		}
		w.Flush()
		if len(result.Errors) > validateMaxShown {
			fmt.Printf("... and %d more\n", len(result.Errors)-validateMaxShown)
		}
	}

	if validateReport != "" {
		data, err := export.ValidationReportCSV(result.Errors)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		if err := os.WriteFile(validateReport, data, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		logger.Info().Str("file", validateReport).Int("findings", len(result.Errors)).Msg("Report written")
	}

	if !result.IsValid {
		return fmt.Errorf("validation failed with %d errors", result.ErrorCount)
	}

	fmt.Println("\nValidation passed")
	return nil
}
