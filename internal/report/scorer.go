package report

import (
	"time"

	"github.com/logiops/ops-portal/internal/domain"
)

// Compliance weighting: resolution completeness 40%, on-time
// resolution 30%, overdue avoidance 30%.
const (
	resolutionWeight = 40.0
	onTimeWeight     = 30.0
	overdueWeight    = 30.0
)

// Scorecard holds the derived metrics for one deduplicated ticket set.
type Scorecard struct {
	Total             int
	Resolved          int
	Overdue           int
	Reopened          int
	OnTimeResolved    int
	AvgResolutionTime *float64
	ComplianceRate    float64
}

// Score computes the compliance scorecard for a set of logical
// tickets, evaluated at the given instant. The input is expected to
// be already filtered and version-resolved.
//
// Nullable fields are handled per record: a missing lead time drops
// the ticket from the average, a missing status_changed_at or
// due_date makes it not-on-time, a missing due_date makes it not
// overdue.
//
// OnTimeResolved is counted over the full set, not just resolved
// tickets, so a reopened ticket that once closed on time still
// counts. The rate is not clamped and can exceed 100.
func Score(tickets []domain.TicketVersion, now time.Time, cls StatusClassifier) Scorecard {
	card := Scorecard{Total: len(tickets)}

	var leadSum float64
	var leadCount int

	for _, t := range tickets {
		resolved := cls.IsResolved(t.StatusName)
		if resolved {
			card.Resolved++
			if t.LeadTimeDays != nil {
				leadSum += *t.LeadTimeDays
				leadCount++
			}
		}
		if cls.IsReopened(t.StatusName) {
			card.Reopened++
		}
		if t.DueDate != nil && t.DueDate.Before(now) && !cls.IsClosed(t.StatusName) {
			card.Overdue++
		}
		if t.StatusChangedAt != nil && t.DueDate != nil && !t.StatusChangedAt.After(*t.DueDate) {
			card.OnTimeResolved++
		}
	}

	if leadCount > 0 {
		avg := leadSum / float64(leadCount)
		card.AvgResolutionTime = &avg
	}

	card.ComplianceRate = complianceRate(card)
	return card
}

func complianceRate(card Scorecard) float64 {
	if card.Total == 0 {
		return 100
	}

	resolutionRatio := float64(card.Resolved) / float64(card.Total)
	onTimeRatio := 0.0
	if card.Resolved > 0 {
		onTimeRatio = float64(card.OnTimeResolved) / float64(card.Resolved)
	}
	overdueRatio := float64(card.Overdue) / float64(card.Total)

	return resolutionRatio*resolutionWeight +
		onTimeRatio*onTimeWeight +
		(1-overdueRatio)*overdueWeight
}
