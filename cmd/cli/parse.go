package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/mapping"
	csvparser "github.com/catalogo/catalog-service/internal/parsers/csv"
	xlsxparser "github.com/catalogo/catalog-service/internal/parsers/xlsx"
	"github.com/catalogo/catalog-service/internal/types"
)

var parseOutput string

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a spreadsheet and show its auto-mapped columns",
	Long: `Parse a local XLSX or CSV file, auto-map its columns to the system
fields and print the mapping with its similarity statistics. Nothing is
validated or persisted; use this to inspect what an import would see.`,
	Example: `  catalog-service parse ./data/catalogo.xlsx
  catalog-service parse ./data/catalogo.csv --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().StringVar(&parseOutput, "output", "table", "Output format: table or json")
}

// loadSheet reads and decodes a spreadsheet file by extension
func loadSheet(filePath string) (*types.ParsedSheet, error) {
	logger.Info().Str("file", filePath).Msg("Reading file")
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".xlsx", ".xls":
		return xlsxparser.Parse(content)
	case ".csv", ".txt":
		return csvparser.Parse(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filePath))
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	sheet, err := loadSheet(args[0])
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	systemFields := fields.All()
	mappings := mapping.AutoMap(systemFields, sheet.Columns)
	stats := mapping.Stats(mappings, systemFields, sheet.Columns)

	switch strings.ToLower(parseOutput) {
	case "json":
		return outputParseJSON(sheet, mappings, stats)
	case "table":
		outputParseTable(args[0], sheet, systemFields, mappings, stats)
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", parseOutput)
	}

	return nil
}

func outputParseJSON(sheet *types.ParsedSheet, mappings []types.ColumnMapping, stats types.MappingStats) error {
	out := struct {
		Columns   []string              `json:"columns"`
		TotalRows int                   `json:"totalRows"`
		Mappings  []types.ColumnMapping `json:"mappings"`
		Stats     types.MappingStats    `json:"stats"`
	}{sheet.Columns, sheet.TotalRows, mappings, stats}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func outputParseTable(filePath string, sheet *types.ParsedSheet, systemFields []types.SystemField, mappings []types.ColumnMapping, stats types.MappingStats) {
	fmt.Printf("\nParse Results for %s\n", filepath.Base(filePath))
	fmt.Println(strings.Repeat("-", 60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Columns:\t%d\n", len(sheet.Columns))
	fmt.Fprintf(w, "Data rows:\t%d\n", sheet.TotalRows)
	fmt.Fprintf(w, "Fields mapped:\t%d/%d\n", stats.TotalMapped, len(systemFields))
	fmt.Fprintf(w, "Required mapped:\t%d/%d\n", stats.RequiredMapped, stats.RequiredTotal)
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "FIELD\tREQUIRED\tCOLUMN")
	byKey := make(map[string]*string, len(mappings))
	for _, m := range mappings {
		byKey[m.SystemField] = m.SheetColumn
	}
	for _, f := range systemFields {
		column := "-"
		if col := byKey[f.Key]; col != nil {
			column = *col
		}
		required := ""
		if f.Required {
			required = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", f.Label, required, column)
	}
	w.Flush()

	if len(stats.UnusedColumns) > 0 {
		fmt.Printf("\nUnused columns: %s\n", strings.Join(stats.UnusedColumns, ", "))
	}
}
