package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/catalogo/catalog-service/internal/pkg/cuid2"
	"github.com/catalogo/catalog-service/internal/types"
)

// CatalogStore implements the importer.Store collaborator on Postgres
type CatalogStore struct{}

// NewCatalogStore returns a store backed by the package connection pool
func NewCatalogStore() *CatalogStore {
	return &CatalogStore{}
}

// CreateCatalog inserts a new draft catalog
func (s *CatalogStore) CreateCatalog(ctx context.Context, name string, description *string) (*types.Catalog, error) {
	id := cuid2.GeneratePrefixedID("cat", cuid2.PrefixedIDOptions{})

	catalog := &types.Catalog{
		ID:          id,
		Name:        name,
		Description: description,
		Status:      types.StatusDraft,
	}

	err := Pool().QueryRow(ctx, `
		INSERT INTO catalogs (id, name, description, status, created_at, updated_at)
		VALUES ($1, $2, $3, 'draft', NOW(), NOW())
		RETURNING created_at, updated_at
	`, id, name, description).Scan(&catalog.CreatedAt, &catalog.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert catalog: %w", err)
	}

	return catalog, nil
}

// GetCatalog returns one catalog row
func (s *CatalogStore) GetCatalog(ctx context.Context, catalogID string) (*types.Catalog, error) {
	var c types.Catalog
	var status string
	err := Pool().QueryRow(ctx, `
		SELECT id, name, description, status, created_at, updated_at
		FROM catalogs
		WHERE id = $1
	`, catalogID).Scan(&c.ID, &c.Name, &c.Description, &status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("query catalog: %w", err)
	}
	c.Status = types.CatalogStatus(status)
	return &c, nil
}

// CreateVersion inserts a new version row for a catalog
func (s *CatalogStore) CreateVersion(ctx context.Context, catalogID string, versionNumber int, status types.CatalogStatus, notes *string) (*types.CatalogVersion, error) {
	id := cuid2.GeneratePrefixedID("ver", cuid2.PrefixedIDOptions{})

	version := &types.CatalogVersion{
		ID:            id,
		CatalogID:     catalogID,
		VersionNumber: versionNumber,
		Status:        status,
		Notes:         notes,
	}

	err := Pool().QueryRow(ctx, `
		INSERT INTO catalog_versions (id, catalog_id, version_number, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING created_at
	`, id, catalogID, versionNumber, string(status), notes).Scan(&version.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert catalog version: %w", err)
	}

	return version, nil
}

// InsertItems writes one batch of items for a version. The whole batch
// succeeds or fails together; callers treat a failed batch as
// recoverable and move on to the next.
func (s *CatalogStore) InsertItems(ctx context.Context, versionID string, items []types.CatalogItemData) error {
	if len(items) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(`
			INSERT INTO catalog_items (
				id, version_id, code, name, price_usd,
				category, category_f1, category_f2, category_f3,
				supplier, warehouse, store_id, store_name,
				image_url, image_filter, states, extra_prices, flags,
				is_selected, is_active, created_at
			) VALUES (
				$1, $2, $3, $4, $5,
				$6, $7, $8, $9,
				$10, $11, $12, $13,
				$14, $15, $16, $17, $18,
				$19, $20, NOW()
			)
		`,
			cuid2.GeneratePrefixedID("itm", cuid2.PrefixedIDOptions{}),
			versionID, item.Code, item.Name, item.PriceUSD,
			item.Category, item.CategoryF1, item.CategoryF2, item.CategoryF3,
			item.Supplier, item.Warehouse, item.StoreID, item.StoreName,
			item.ImageURL, item.ImageFilter, item.States, item.ExtraPrices, item.Flags,
			item.IsSelected, item.IsActive,
		)
	}

	results := Pool().SendBatch(ctx, batch)
	defer results.Close()

	for range items {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("insert catalog items: %w", err)
		}
	}
	return nil
}

// ListItems returns all items of a version, ordered by code
func (s *CatalogStore) ListItems(ctx context.Context, versionID string) ([]types.CatalogItemData, error) {
	rows, err := Pool().Query(ctx, `
		SELECT code, name, price_usd,
		       category, category_f1, category_f2, category_f3,
		       supplier, warehouse, store_id, store_name,
		       image_url, image_filter, states, extra_prices, flags,
		       is_selected, is_active
		FROM catalog_items
		WHERE version_id = $1
		ORDER BY code
	`, versionID)
	if err != nil {
		return nil, fmt.Errorf("query catalog items: %w", err)
	}
	defer rows.Close()

	items := make([]types.CatalogItemData, 0)
	for rows.Next() {
		var item types.CatalogItemData
		if err := rows.Scan(
			&item.Code, &item.Name, &item.PriceUSD,
			&item.Category, &item.CategoryF1, &item.CategoryF2, &item.CategoryF3,
			&item.Supplier, &item.Warehouse, &item.StoreID, &item.StoreName,
			&item.ImageURL, &item.ImageFilter, &item.States, &item.ExtraPrices, &item.Flags,
			&item.IsSelected, &item.IsActive,
		); err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		if item.States == nil {
			item.States = make(map[string]string)
		}
		if item.ExtraPrices == nil {
			item.ExtraPrices = make(map[string]float64)
		}
		if item.Flags == nil {
			item.Flags = make(map[string]bool)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetVersion returns one version row
func (s *CatalogStore) GetVersion(ctx context.Context, versionID string) (*types.CatalogVersion, error) {
	var v types.CatalogVersion
	var status string
	err := Pool().QueryRow(ctx, `
		SELECT id, catalog_id, version_number, status, notes, created_at
		FROM catalog_versions
		WHERE id = $1
	`, versionID).Scan(&v.ID, &v.CatalogID, &v.VersionNumber, &status, &v.Notes, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("query catalog version: %w", err)
	}
	v.Status = types.CatalogStatus(status)
	return &v, nil
}

// LatestVersion returns the highest-numbered version of a catalog
func (s *CatalogStore) LatestVersion(ctx context.Context, catalogID string) (*types.CatalogVersion, error) {
	var v types.CatalogVersion
	var status string
	err := Pool().QueryRow(ctx, `
		SELECT id, catalog_id, version_number, status, notes, created_at
		FROM catalog_versions
		WHERE catalog_id = $1
		ORDER BY version_number DESC
		LIMIT 1
	`, catalogID).Scan(&v.ID, &v.CatalogID, &v.VersionNumber, &status, &v.Notes, &v.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("query latest version: %w", err)
	}
	v.Status = types.CatalogStatus(status)
	return &v, nil
}

// ArchiveVersions archives every published version of a catalog except
// the given one
func (s *CatalogStore) ArchiveVersions(ctx context.Context, catalogID string, exceptVersionID string) error {
	_, err := Pool().Exec(ctx, `
		UPDATE catalog_versions
		SET status = 'archived'
		WHERE catalog_id = $1 AND status = 'published' AND id <> $2
	`, catalogID, exceptVersionID)
	if err != nil {
		return fmt.Errorf("archive versions: %w", err)
	}
	return nil
}

// PublishVersion publishes a version. The archive-then-publish sequence
// runs in one transaction with the catalog row locked, so concurrent
// publish calls serialize and at most one version of a catalog is ever
// published.
func (s *CatalogStore) PublishVersion(ctx context.Context, versionID string) error {
	tx, err := Pool().BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin publish tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var catalogID string
	err = tx.QueryRow(ctx, `
		SELECT c.id
		FROM catalogs c
		JOIN catalog_versions v ON v.catalog_id = c.id
		WHERE v.id = $1
		FOR UPDATE OF c
	`, versionID).Scan(&catalogID)
	if err != nil {
		return fmt.Errorf("lock catalog for publish: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE catalog_versions
		SET status = 'archived'
		WHERE catalog_id = $1 AND status = 'published' AND id <> $2
	`, catalogID, versionID); err != nil {
		return fmt.Errorf("archive published versions: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE catalog_versions
		SET status = 'published'
		WHERE id = $1
	`, versionID); err != nil {
		return fmt.Errorf("publish version: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE catalogs
		SET status = 'published', updated_at = NOW()
		WHERE id = $1
	`, catalogID); err != nil {
		return fmt.Errorf("update catalog status: %w", err)
	}

	return tx.Commit(ctx)
}

// DeleteCatalog removes a catalog and its versions. Used as the
// compensating action when version creation fails mid-import.
func (s *CatalogStore) DeleteCatalog(ctx context.Context, catalogID string) error {
	_, err := Pool().Exec(ctx, `DELETE FROM catalogs WHERE id = $1`, catalogID)
	if err != nil {
		return fmt.Errorf("delete catalog: %w", err)
	}
	return nil
}
