package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/catalogo/catalog-service/internal/database"
	"github.com/catalogo/catalog-service/internal/export"
)

// PublishVersion publishes one version of a catalog. Any previously
// published version of the same catalog is archived in the same
// transaction.
// POST /internal/catalogs/:catalogId/versions/:versionId/publish
func PublishVersion(c *gin.Context) {
	catalogID := c.Param("catalogId")
	versionID := c.Param("versionId")

	store := database.NewCatalogStore()
	ctx := c.Request.Context()

	version, err := store.GetVersion(ctx, versionID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown version: %s", versionID)})
		return
	}
	if version.CatalogID != catalogID {
		c.JSON(http.StatusNotFound, gin.H{"error": "version does not belong to catalog"})
		return
	}

	if err := store.PublishVersion(ctx, versionID); err != nil {
		log.Error().Err(err).Str("versionId", versionID).Msg("Publish failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to publish version"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"catalogId": catalogID,
		"versionId": versionID,
		"status":    "published",
	})
}

// ExportVersion streams one version's items as xlsx or csv
// GET /internal/catalogs/:catalogId/versions/:versionId/export
func ExportVersion(c *gin.Context) {
	catalogID := c.Param("catalogId")
	versionID := c.Param("versionId")
	format := c.DefaultQuery("format", "xlsx")
	if format != "xlsx" && format != "csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported format: %s", format)})
		return
	}

	store := database.NewCatalogStore()
	ctx := c.Request.Context()

	catalog, err := store.GetCatalog(ctx, catalogID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown catalog: %s", catalogID)})
		return
	}

	version, err := store.GetVersion(ctx, versionID)
	if err != nil || version.CatalogID != catalogID {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown version: %s", versionID)})
		return
	}

	items, err := store.ListItems(ctx, versionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load items"})
		return
	}

	opts := export.Options{
		CatalogName:     catalog.Name,
		IncludeInactive: c.Query("includeInactive") == "true",
		OnlySelected:    c.Query("onlySelected") == "true",
		Category:        c.Query("category"),
	}

	var data []byte
	var contentType string
	if format == "xlsx" {
		data, err = export.CatalogXLSX(items, opts)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	} else {
		data, err = export.CatalogCSV(items, opts)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		if err == export.ErrNoItems {
			c.JSON(http.StatusNotFound, gin.H{"error": "no items match the export filters"})
			return
		}
		log.Error().Err(err).Str("versionId", versionID).Msg("Export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	filename := export.Filename(opts, format, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
