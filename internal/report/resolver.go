package report

import (
	"github.com/logiops/ops-portal/internal/domain"
)

// ResolveLatest collapses a stream of ticket versions into one record
// per logical ticket, keeping the version with the latest CreatedAt.
// The comparison is strictly greater-than, so when two versions share
// a CreatedAt the first-seen one wins. Result order is unspecified;
// callers must not depend on it.
func ResolveLatest(versions []domain.TicketVersion) []domain.TicketVersion {
	if len(versions) == 0 {
		return nil
	}

	latest := make(map[string]domain.TicketVersion, len(versions))
	for _, v := range versions {
		current, seen := latest[v.TicketNumber]
		if !seen || v.CreatedAt.After(current.CreatedAt) {
			latest[v.TicketNumber] = v
		}
	}

	result := make([]domain.TicketVersion, 0, len(latest))
	for _, v := range latest {
		result = append(result, v)
	}
	return result
}
