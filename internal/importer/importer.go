// Package importer drives the end-to-end import sequence: create or
// select a version, transform rows, diff when updating, and persist the
// item set in fixed-size batches. Batches are best-effort: a failing
// batch is reported and counted but never aborts the remaining ones.
package importer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/catalogo/catalog-service/internal/transform"
	"github.com/catalogo/catalog-service/internal/types"
)

// BatchSize is the number of items persisted per insert call
const BatchSize = 100

// Store is the persistence collaborator the orchestrator writes
// through. Implementations own all atomicity guarantees.
type Store interface {
	CreateCatalog(ctx context.Context, name string, description *string) (*types.Catalog, error)
	CreateVersion(ctx context.Context, catalogID string, versionNumber int, status types.CatalogStatus, notes *string) (*types.CatalogVersion, error)
	InsertItems(ctx context.Context, versionID string, items []types.CatalogItemData) error
	ListItems(ctx context.Context, versionID string) ([]types.CatalogItemData, error)
	ArchiveVersions(ctx context.Context, catalogID string, exceptVersionID string) error
	PublishVersion(ctx context.Context, versionID string) error
	DeleteCatalog(ctx context.Context, catalogID string) error
}

// ProgressFunc receives monotonic progress updates in percent
type ProgressFunc func(percent int, message string)

// BatchError records a failed batch so it can be mapped back to
// specific spreadsheet rows by index
type BatchError struct {
	Batch int    `json:"batch"` // 1-based batch number
	Start int    `json:"start"` // index of the first item in the batch
	Count int    `json:"count"`
	Err   string `json:"error"`
}

// Result is the outcome of an import run. ItemsImported counts only
// items from batches that actually succeeded.
type Result struct {
	CatalogID     string       `json:"catalogId"`
	VersionID     string       `json:"versionId"`
	ItemsImported int          `json:"itemsImported"`
	BatchErrors   []BatchError `json:"batchErrors,omitempty"`
}

// FreshParams configures a fresh import creating a new catalog
type FreshParams struct {
	CatalogName        string
	CatalogDescription *string
	Rows               []types.RawRow
	Mappings           []types.ColumnMapping
	OnProgress         ProgressFunc
}

// UpdateParams configures an update import writing a merged item set
// into the next version of an existing catalog
type UpdateParams struct {
	CatalogID         string
	BaseVersionNumber int
	Items             []types.CatalogItemData
	OnProgress        ProgressFunc
}

// Orchestrator coordinates imports against a Store
type Orchestrator struct {
	store Store
}

// New creates an Orchestrator
func New(store Store) *Orchestrator {
	return &Orchestrator{store: store}
}

// FreshImport creates a catalog with version 1 (draft) and persists the
// transformed rows. A failure to create the version rolls back the
// just-created catalog and is fatal; batch insert failures are not.
func (o *Orchestrator) FreshImport(ctx context.Context, p FreshParams) (*Result, error) {
	progress := progressFn(p.OnProgress)

	progress(5, "Creando catálogo...")
	catalog, err := o.store.CreateCatalog(ctx, p.CatalogName, p.CatalogDescription)
	if err != nil {
		importsFailed.WithLabelValues("fresh").Inc()
		return nil, fmt.Errorf("failed to create catalog: %w", err)
	}

	progress(15, "Creando versión...")
	notes := fmt.Sprintf("Importación inicial de %d productos", len(p.Rows))
	version, err := o.store.CreateVersion(ctx, catalog.ID, 1, types.StatusDraft, &notes)
	if err != nil {
		// Compensating delete for the catalog created above
		if delErr := o.store.DeleteCatalog(ctx, catalog.ID); delErr != nil {
			log.Error().Err(delErr).Str("catalog_id", catalog.ID).
				Msg("Failed to roll back catalog after version creation failure")
		}
		importsFailed.WithLabelValues("fresh").Inc()
		return nil, fmt.Errorf("failed to create catalog version: %w", err)
	}

	progress(25, "Preparando productos...")
	items := transform.ToCanonicalItems(p.Rows, p.Mappings)

	inserted, batchErrors := o.insertBatches(ctx, version.ID, items, func(batch, totalBatches, done, total int) {
		progress(25+int(float64(batch)/float64(totalBatches)*70+0.5),
			fmt.Sprintf("Importando productos (%d/%d)...", done, total))
	})

	progress(100, "¡Importación completada!")
	importsCompleted.WithLabelValues("fresh").Inc()
	itemsPersisted.Add(float64(inserted))

	return &Result{
		CatalogID:     catalog.ID,
		VersionID:     version.ID,
		ItemsImported: inserted,
		BatchErrors:   batchErrors,
	}, nil
}

// UpdateImport writes an already-merged item set into version
// baseVersionNumber+1 of an existing catalog. Versions are immutable
// snapshots: every item is freshly written, nothing carries over by
// reference.
func (o *Orchestrator) UpdateImport(ctx context.Context, p UpdateParams) (*Result, error) {
	progress := progressFn(p.OnProgress)

	progress(5, "Creando nueva versión...")
	notes := fmt.Sprintf("Actualización con %d productos", len(p.Items))
	version, err := o.store.CreateVersion(ctx, p.CatalogID, p.BaseVersionNumber+1, types.StatusDraft, &notes)
	if err != nil {
		importsFailed.WithLabelValues("update").Inc()
		return nil, fmt.Errorf("failed to create catalog version: %w", err)
	}

	inserted, batchErrors := o.insertBatches(ctx, version.ID, p.Items, func(batch, totalBatches, done, total int) {
		progress(10+int(float64(batch)/float64(totalBatches)*85+0.5),
			fmt.Sprintf("Actualizando productos (%d/%d)...", done, total))
	})

	progress(100, "Actualización completada")
	importsCompleted.WithLabelValues("update").Inc()
	itemsPersisted.Add(float64(inserted))

	return &Result{
		CatalogID:     p.CatalogID,
		VersionID:     version.ID,
		ItemsImported: inserted,
		BatchErrors:   batchErrors,
	}, nil
}

// insertBatches persists items in fixed-size batches, strictly in row
// order, reporting progress after each submission. Returns the number
// of successfully inserted items and per-batch failures.
func (o *Orchestrator) insertBatches(ctx context.Context, versionID string, items []types.CatalogItemData, report func(batch, totalBatches, done, total int)) (int, []BatchError) {
	totalBatches := (len(items) + BatchSize - 1) / BatchSize
	inserted := 0
	var batchErrors []BatchError

	for start := 0; start < len(items); start += BatchSize {
		end := start + BatchSize
		if end > len(items) {
			end = len(items)
		}
		batch := items[start:end]
		batchNumber := start/BatchSize + 1

		report(batchNumber, totalBatches, end, len(items))

		if err := o.store.InsertItems(ctx, versionID, batch); err != nil {
			log.Error().Err(err).
				Str("version_id", versionID).
				Int("batch", batchNumber).
				Msg("Batch insert failed")
			batchesFailed.Inc()
			batchErrors = append(batchErrors, BatchError{
				Batch: batchNumber,
				Start: start,
				Count: len(batch),
				Err:   err.Error(),
			})
			continue
		}
		inserted += len(batch)
	}

	return inserted, batchErrors
}

func progressFn(fn ProgressFunc) ProgressFunc {
	if fn == nil {
		return func(int, string) {}
	}
	return fn
}
