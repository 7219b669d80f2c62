package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/catalogo/catalog-service/internal/database"
	"github.com/catalogo/catalog-service/internal/diff"
	"github.com/catalogo/catalog-service/internal/fields"
	"github.com/catalogo/catalog-service/internal/importer"
	"github.com/catalogo/catalog-service/internal/transform"
	"github.com/catalogo/catalog-service/internal/types"
	"github.com/catalogo/catalog-service/internal/validation"
)

// importSem caps concurrent import goroutines to prevent resource
// exhaustion under parallel uploads. Configure overrides the weight
// from import.max_concurrent_runs.
var importSem = semaphore.NewWeighted(4)

// importRuns tracks asynchronous import runs in memory
var importRuns = importer.NewRunRegistry()

// Configure applies the server's import limits. Call before routes are
// registered; values <= 0 keep the defaults.
func Configure(maxConcurrentRuns, maxUploadMB int) {
	if maxConcurrentRuns > 0 {
		importSem = semaphore.NewWeighted(int64(maxConcurrentRuns))
	}
	if maxUploadMB > 0 {
		maxUploadBytes = int64(maxUploadMB) << 20
	}
}

// StartRunSweeper evicts finished import runs an hour after they end,
// keeping the in-memory registry bounded
func StartRunSweeper(ctx context.Context) {
	importRuns.StartSweeper(ctx, 10*time.Minute, time.Hour)
}

// FreshImportRequest starts a new catalog from parsed rows
type FreshImportRequest struct {
	CatalogName string                `json:"catalogName" binding:"required"`
	Description *string               `json:"description"`
	Rows        []types.RawRow        `json:"rows" binding:"required"`
	Mappings    []types.ColumnMapping `json:"mappings" binding:"required"`
}

// ImportStartedResponse is the 202 response for asynchronous imports
type ImportStartedResponse struct {
	RunID   string `json:"runId"`
	Status  string `json:"status"`
	PollURL string `json:"pollUrl"`
}

// FreshImport creates a catalog plus its first version asynchronously
// POST /internal/import/catalogs
// Returns 202 Accepted immediately with runId and pollUrl
func FreshImport(c *gin.Context) {
	var req FreshImportRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	result := validation.Validate(req.Rows, req.Mappings, fields.All())
	if !result.IsValid {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      "validation failed",
			"validation": result,
		})
		return
	}

	run := importRuns.Start("fresh")
	orchestrator := importer.New(database.NewCatalogStore())

	go func() {
		if err := importSem.Acquire(context.Background(), 1); err != nil {
			importRuns.Fail(run.ID, err)
			return
		}
		defer importSem.Release(1)

		res, err := orchestrator.FreshImport(context.Background(), importer.FreshParams{
			CatalogName:        req.CatalogName,
			CatalogDescription: req.Description,
			Rows:               req.Rows,
			Mappings:           req.Mappings,
			OnProgress: func(percent int, message string) {
				importRuns.Progress(run.ID, percent, message)
			},
		})
		if err != nil {
			log.Error().Err(err).Str("runId", run.ID).Msg("Fresh import failed")
			importRuns.Fail(run.ID, err)
			return
		}
		importRuns.Complete(run.ID, res)
	}()

	c.JSON(http.StatusAccepted, ImportStartedResponse{
		RunID:   run.ID,
		Status:  "started",
		PollURL: fmt.Sprintf("/internal/import/runs/%s", run.ID),
	})
}

// DiffRequest carries the incoming rows to compare against a
// catalog's latest version
type DiffRequest struct {
	Rows     []types.RawRow        `json:"rows" binding:"required"`
	Mappings []types.ColumnMapping `json:"mappings" binding:"required"`
}

// DiffResponse pairs the diff with the version it was computed against
type DiffResponse struct {
	BaseVersion *types.CatalogVersion `json:"baseVersion"`
	Diff        *types.DiffResult     `json:"diff"`
}

// DiffCatalog compares transformed upload rows against the latest
// version of an existing catalog
// POST /internal/import/catalogs/:catalogId/diff
func DiffCatalog(c *gin.Context) {
	catalogID := c.Param("catalogId")

	var req DiffRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	store := database.NewCatalogStore()
	ctx := c.Request.Context()

	version, err := store.LatestVersion(ctx, catalogID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("catalog %s has no versions", catalogID)})
		return
	}

	existing, err := store.ListItems(ctx, version.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load existing items"})
		return
	}

	incoming := transform.ToCanonicalItems(req.Rows, req.Mappings)

	c.JSON(http.StatusOK, DiffResponse{
		BaseVersion: version,
		Diff:        diff.Diff(existing, incoming),
	})
}

// ApplyRequest carries the upload rows plus the operator's selection
// of diffed changes to carry into the next version
type ApplyRequest struct {
	Rows     []types.RawRow        `json:"rows" binding:"required"`
	Mappings []types.ColumnMapping `json:"mappings" binding:"required"`
	Options  types.ApplyOptions    `json:"options"`
}

// ApplyCatalog merges selected changes into a new draft version of an
// existing catalog, asynchronously
// POST /internal/import/catalogs/:catalogId/apply
func ApplyCatalog(c *gin.Context) {
	catalogID := c.Param("catalogId")

	var req ApplyRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	store := database.NewCatalogStore()
	ctx := c.Request.Context()

	version, err := store.LatestVersion(ctx, catalogID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("catalog %s has no versions", catalogID)})
		return
	}

	existing, err := store.ListItems(ctx, version.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load existing items"})
		return
	}

	incoming := transform.ToCanonicalItems(req.Rows, req.Mappings)
	merged := diff.Merge(existing, diff.Diff(existing, incoming), req.Options)

	run := importRuns.Start("update")
	orchestrator := importer.New(store)
	baseVersionNumber := version.VersionNumber

	go func() {
		if err := importSem.Acquire(context.Background(), 1); err != nil {
			importRuns.Fail(run.ID, err)
			return
		}
		defer importSem.Release(1)

		res, err := orchestrator.UpdateImport(context.Background(), importer.UpdateParams{
			CatalogID:         catalogID,
			BaseVersionNumber: baseVersionNumber,
			Items:             merged,
			OnProgress: func(percent int, message string) {
				importRuns.Progress(run.ID, percent, message)
			},
		})
		if err != nil {
			log.Error().Err(err).Str("runId", run.ID).Str("catalogId", catalogID).Msg("Update import failed")
			importRuns.Fail(run.ID, err)
			return
		}
		importRuns.Complete(run.ID, res)
	}()

	c.JSON(http.StatusAccepted, ImportStartedResponse{
		RunID:   run.ID,
		Status:  "started",
		PollURL: fmt.Sprintf("/internal/import/runs/%s", run.ID),
	})
}

// GetImportRun reports the status of an asynchronous import run
// GET /internal/import/runs/:runId
func GetImportRun(c *gin.Context) {
	runID := c.Param("runId")

	run, ok := importRuns.Get(runID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown run: %s", runID)})
		return
	}

	c.JSON(http.StatusOK, run)
}
