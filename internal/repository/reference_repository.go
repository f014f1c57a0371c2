package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logiops/ops-portal/internal/domain"
)

// ReferenceRepository serves the id/name lists backing the report
// filter dropdowns.
type ReferenceRepository interface {
	ListDepartments(ctx context.Context) ([]domain.ReferenceItem, error)
	ListServiceProviders(ctx context.Context) ([]domain.ReferenceItem, error)
	ListStatuses(ctx context.Context) ([]domain.ReferenceItem, error)
}

type referenceRepository struct {
	pool *pgxpool.Pool
}

// NewReferenceRepository instantiates repository.
func NewReferenceRepository(pool *pgxpool.Pool) ReferenceRepository {
	return &referenceRepository{pool: pool}
}

func (r *referenceRepository) ListDepartments(ctx context.Context) ([]domain.ReferenceItem, error) {
	return r.listNamed(ctx, "departments")
}

func (r *referenceRepository) ListServiceProviders(ctx context.Context) ([]domain.ReferenceItem, error) {
	return r.listNamed(ctx, "service_providers")
}

func (r *referenceRepository) ListStatuses(ctx context.Context) ([]domain.ReferenceItem, error) {
	return r.listNamed(ctx, "statuses")
}

func (r *referenceRepository) listNamed(ctx context.Context, table string) ([]domain.ReferenceItem, error) {
	query := fmt.Sprintf(`SELECT id, name FROM %s ORDER BY name`, table)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ReferenceItem
	for rows.Next() {
		var item domain.ReferenceItem
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
