package readstore

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"
	"salon-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
)

type CatalogReadStore struct {
	db db.DBTX
}

func NewCatalogReadStore(dbtx db.DBTX) *CatalogReadStore {
	return &CatalogReadStore{db: dbtx}
}

const activeServicesSQL = `
SELECT id, slug, name, duration_min, base_price_cents, promo_price_cents,
       forfait_price_cents, active, created_at, updated_at
FROM services
WHERE active = true
ORDER BY name`

func (r *CatalogReadStore) FindActive(ctx context.Context) ([]*queries.ServiceView, error) {
	rows, err := r.db.Query(ctx, activeServicesSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list services", err)
	}
	defer rows.Close()

	var result []*queries.ServiceView
	for rows.Next() {
		var (
			view                 queries.ServiceView
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(
			&view.ID, &view.Slug, &view.Name, &view.DurationMinutes,
			&view.BasePriceCents, &view.PromoPriceCents, &view.ForfaitCents,
			&view.Active, &createdAt, &updatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan service row", err)
		}
		result = append(result, &view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate service rows", err)
	}
	return result, nil
}

const serviceBySlugSQL = `
SELECT id, slug, name, duration_min, base_price_cents, promo_price_cents,
       forfait_price_cents, active
FROM services
WHERE slug = $1`

func (r *CatalogReadStore) FindBySlug(ctx context.Context, slug string) (*queries.ServiceView, error) {
	var view queries.ServiceView
	err := r.db.QueryRow(ctx, serviceBySlugSQL, slug).Scan(
		&view.ID, &view.Slug, &view.Name, &view.DurationMinutes,
		&view.BasePriceCents, &view.PromoPriceCents, &view.ForfaitCents, &view.Active,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("service not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find service by slug", err)
	}
	return &view, nil
}

// ActiveItems returns the active catalog keyed by slug as domain entities,
// for duration and price resolution.
func (r *CatalogReadStore) ActiveItems(ctx context.Context) (map[string]*catalog.ServiceItem, error) {
	rows, err := r.db.Query(ctx, activeServicesSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load catalog", err)
	}
	defer rows.Close()

	items := make(map[string]*catalog.ServiceItem)
	for rows.Next() {
		var (
			id                   uuid.UUID
			slug, name           string
			durationMin          int
			basePrice            int64
			promo, forfait       *int64
			active               bool
			createdAt, updatedAt time.Time
		)
		if err := rows.Scan(
			&id, &slug, &name, &durationMin, &basePrice, &promo, &forfait,
			&active, &createdAt, &updatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan catalog row", err)
		}
		items[slug] = catalog.ReconstructServiceItem(
			id, slug, name, durationMin, basePrice, promo, forfait,
			active, createdAt, updatedAt,
		)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate catalog rows", err)
	}
	return items, nil
}
