package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/mapping"
	csvparser "github.com/catalogo/catalog-service/internal/parsers/csv"
	xlsxparser "github.com/catalogo/catalog-service/internal/parsers/xlsx"
	"github.com/catalogo/catalog-service/internal/types"
)

// maxUploadBytes caps uploaded spreadsheet size. Configure overrides it
// from import.max_upload_mb.
var maxUploadBytes int64 = 20 << 20

// previewRows is how many data rows the parse response carries
const previewRows = 10

// ParseResponse is returned after decoding an uploaded spreadsheet.
// Preview holds at most the first ten data rows; the client re-sends
// the full row set with later requests.
type ParseResponse struct {
	Columns      []string              `json:"columns"`
	TotalRows    int                   `json:"totalRows"`
	Preview      []types.RawRow        `json:"preview"`
	Rows         []types.RawRow        `json:"rows"`
	SystemFields []types.SystemField   `json:"systemFields"`
	Mappings     []types.ColumnMapping `json:"mappings"`
	Stats        types.MappingStats    `json:"stats"`
}

// ParseUpload decodes a multipart spreadsheet upload and auto-maps its
// columns to system fields
// POST /internal/import/parse
func ParseUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file form field is required"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds %d byte limit", maxUploadBytes),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open uploaded file"})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}

	sheet, err := parseByExtension(fileHeader.Filename, content)
	if err != nil {
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, xlsxparser.ErrEmptyFile), errors.Is(err, csvparser.ErrEmptyFile):
		case errors.Is(err, xlsxparser.ErrNoData), errors.Is(err, csvparser.ErrNoData):
		default:
			status = http.StatusBadRequest
		}
		log.Warn().Err(err).Str("filename", fileHeader.Filename).Msg("Upload parse failed")
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	systemFields := fields.All()
	mappings := mapping.AutoMap(systemFields, sheet.Columns)

	preview := sheet.Rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}

	c.JSON(http.StatusOK, ParseResponse{
		Columns:      sheet.Columns,
		TotalRows:    sheet.TotalRows,
		Preview:      preview,
		Rows:         sheet.Rows,
		SystemFields: systemFields,
		Mappings:     mappings,
		Stats:        mapping.Stats(mappings, systemFields, sheet.Columns),
	})
}

func parseByExtension(filename string, content []byte) (*types.ParsedSheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return xlsxparser.Parse(content)
	case ".csv", ".txt":
		return csvparser.Parse(content)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}
