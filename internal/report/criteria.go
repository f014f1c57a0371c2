package report

import (
	"context"
	"time"

	"github.com/logiops/ops-portal/internal/domain"
)

// Criteria narrows the raw version pool before resolution. Every
// present field is an equality or inclusive range constraint, combined
// with AND. Nil means "no constraint on this dimension".
//
// Filtering happens at the record-fetch boundary, before latest-wins
// resolution: the resolver picks the latest surviving version, which
// may differ from the globally-latest one.
type Criteria struct {
	Department      *string
	ServiceProvider *string
	Status          *string
	StartDate       *time.Time
	EndDate         *time.Time
}

// Matches reports whether a single version satisfies every present
// constraint. The repository pushes the same predicate into SQL; this
// in-memory form exists for tests and in-memory stores.
func (c Criteria) Matches(v domain.TicketVersion) bool {
	if c.Department != nil && v.DepartmentName != *c.Department {
		return false
	}
	if c.ServiceProvider != nil && v.VendorCode != *c.ServiceProvider {
		return false
	}
	if c.Status != nil && v.StatusName != *c.Status {
		return false
	}
	if c.StartDate != nil && v.CreatedAt.Before(*c.StartDate) {
		return false
	}
	if c.EndDate != nil && v.CreatedAt.After(*c.EndDate) {
		return false
	}
	return true
}

// VersionQuery describes one fetch against the ticket record store:
// group-key equality constraints plus the shared criteria.
type VersionQuery struct {
	AssignedTo     *string
	Accountability *string
	KPIName        *string
	Criteria       Criteria
}

// VersionStore is the read boundary to the external ticket record
// store. ListVersions returns every version row matching the query;
// CountVersions returns the raw (unresolved) row count.
type VersionStore interface {
	ListVersions(ctx context.Context, q VersionQuery) ([]domain.TicketVersion, error)
	CountVersions(ctx context.Context, q VersionQuery) (int, error)
}
