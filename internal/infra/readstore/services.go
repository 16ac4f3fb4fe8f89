package readstore

import (
	"context"

	"groomdesk/internal/domain/scheduling"
	"groomdesk/internal/infra"
	"groomdesk/internal/infra/db"
	"groomdesk/internal/infra/pgconv"

	"github.com/google/uuid"
)

const serviceItemByIDQuery = `
SELECT id, category_id, name, duration_minutes, price_cents
FROM service_items
WHERE id = $1
`

const serviceResourcesQuery = `
SELECT resource_type_id, quantity, duration_minutes
FROM service_item_resources
WHERE service_item_id = $1
ORDER BY resource_type_id
`

type ServiceItemReadStore struct {
	db db.DBTX
}

func NewServiceItemReadStore(db db.DBTX) *ServiceItemReadStore {
	return &ServiceItemReadStore{db: db}
}

func (s *ServiceItemReadStore) FindByID(ctx context.Context, id uuid.UUID) (scheduling.ServiceItem, error) {
	var item scheduling.ServiceItem
	err := s.db.QueryRow(ctx, serviceItemByIDQuery, id).Scan(
		&item.ID, &item.CategoryID, &item.Name, &item.DurationMinutes, &item.PriceCents,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return scheduling.ServiceItem{}, infra.WrapRepoErr("service item not found", err, infra.KindNotFound)
		}
		return scheduling.ServiceItem{}, infra.WrapRepoErr("failed to find service item", err)
	}

	rows, err := s.db.Query(ctx, serviceResourcesQuery, id)
	if err != nil {
		return scheduling.ServiceItem{}, infra.WrapRepoErr("failed to query service resources", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r scheduling.RequiredResource
		if err := rows.Scan(&r.ResourceTypeID, &r.Quantity, &r.DurationMinutes); err != nil {
			return scheduling.ServiceItem{}, infra.WrapRepoErr("failed to scan service resource", err)
		}
		item.Resources = append(item.Resources, r)
	}
	if err := rows.Err(); err != nil {
		return scheduling.ServiceItem{}, infra.WrapRepoErr("failed to read service resources", err)
	}
	return item, nil
}
