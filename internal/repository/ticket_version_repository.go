package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logiops/ops-portal/internal/domain"
	"github.com/logiops/ops-portal/internal/report"
)

const versionColumns = `ticket_number, version, created_at, due_date, incident_date,
               status_changed_at, status_name, lead_time_days, assigned_to,
               accountability, department_name, kpi_name, vendor_code`

// TicketVersionRepository reads the append-only ticket version log
// through the ticket_details view. The view is written by the rest of
// the portal; this service only queries it.
type TicketVersionRepository interface {
	report.VersionStore
}

type ticketVersionRepository struct {
	pool *pgxpool.Pool
}

// NewTicketVersionRepository instantiates repository.
func NewTicketVersionRepository(pool *pgxpool.Pool) TicketVersionRepository {
	return &ticketVersionRepository{pool: pool}
}

func (r *ticketVersionRepository) ListVersions(ctx context.Context, q report.VersionQuery) ([]domain.TicketVersion, error) {
	where, args := BuildVersionWhere(q)
	query := fmt.Sprintf(`SELECT %s FROM ticket_details WHERE %s`, versionColumns, where)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanVersions(rows)
}

func (r *ticketVersionRepository) CountVersions(ctx context.Context, q report.VersionQuery) (int, error) {
	where, args := BuildVersionWhere(q)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM ticket_details WHERE %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// BuildVersionWhere translates a version query into a WHERE clause
// with positional arguments. Exported for the query-shape tests.
func BuildVersionWhere(q report.VersionQuery) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if q.AssignedTo != nil {
		args = append(args, *q.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if q.Accountability != nil {
		args = append(args, *q.Accountability)
		clauses = append(clauses, fmt.Sprintf("accountability=$%d", len(args)))
	}
	if q.KPIName != nil {
		args = append(args, *q.KPIName)
		clauses = append(clauses, fmt.Sprintf("kpi_name=$%d", len(args)))
	}
	if q.Criteria.Department != nil {
		args = append(args, *q.Criteria.Department)
		clauses = append(clauses, fmt.Sprintf("department_name=$%d", len(args)))
	}
	if q.Criteria.ServiceProvider != nil {
		args = append(args, *q.Criteria.ServiceProvider)
		clauses = append(clauses, fmt.Sprintf("vendor_code=$%d", len(args)))
	}
	if q.Criteria.Status != nil {
		args = append(args, *q.Criteria.Status)
		clauses = append(clauses, fmt.Sprintf("status_name=$%d", len(args)))
	}
	if q.Criteria.StartDate != nil {
		args = append(args, *q.Criteria.StartDate)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if q.Criteria.EndDate != nil {
		args = append(args, *q.Criteria.EndDate)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

func scanVersions(rows pgx.Rows) ([]domain.TicketVersion, error) {
	var result []domain.TicketVersion
	for rows.Next() {
		var v domain.TicketVersion
		if err := rows.Scan(
			&v.TicketNumber,
			&v.Version,
			&v.CreatedAt,
			&v.DueDate,
			&v.IncidentDate,
			&v.StatusChangedAt,
			&v.StatusName,
			&v.LeadTimeDays,
			&v.AssignedTo,
			&v.Accountability,
			&v.DepartmentName,
			&v.KPIName,
			&v.VendorCode,
		); err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, rows.Err()
}
