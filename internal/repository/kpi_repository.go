package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logiops/ops-portal/internal/domain"
)

// KPIRepository lists the KPI grouping directory.
type KPIRepository interface {
	ListAll(ctx context.Context) ([]domain.KPI, error)
}

type kpiRepository struct {
	pool *pgxpool.Pool
}

// NewKPIRepository instantiates repository.
func NewKPIRepository(pool *pgxpool.Pool) KPIRepository {
	return &kpiRepository{pool: pool}
}

func (r *kpiRepository) ListAll(ctx context.Context) ([]domain.KPI, error) {
	const query = `
        SELECT k.id, k.name, COALESCE(d.name, '')
        FROM kpis k
        LEFT JOIN departments d ON d.id = k.department_id
        ORDER BY k.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.KPI
	for rows.Next() {
		var kpi domain.KPI
		if err := rows.Scan(&kpi.ID, &kpi.Name, &kpi.DepartmentName); err != nil {
			return nil, err
		}
		result = append(result, kpi)
	}
	return result, rows.Err()
}
