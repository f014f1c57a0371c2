package report

import (
	"math"
	"testing"
	"time"

	"github.com/logiops/ops-portal/internal/domain"
)

var evalTime = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func timePtr(t time.Time) *time.Time { return &t }

func floatPtr(f float64) *float64 { return &f }

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestScoreEmptySet(t *testing.T) {
	card := Score(nil, evalTime, SubstringClassifier{})

	if card.Total != 0 || card.Resolved != 0 || card.Overdue != 0 {
		t.Fatalf("expected zero counts, got %+v", card)
	}
	if card.AvgResolutionTime != nil {
		t.Errorf("expected nil average for empty set, got %v", *card.AvgResolutionTime)
	}
	if card.ComplianceRate != 100 {
		t.Errorf("expected compliance 100 for empty set, got %v", card.ComplianceRate)
	}
}

func TestScoreMixedSet(t *testing.T) {
	// Three tickets: two closed on time with lead times 2 and 4 days,
	// one still open and past due.
	due := evalTime.Add(-24 * time.Hour)
	changed := due.Add(-time.Hour)

	tickets := []domain.TicketVersion{
		{TicketNumber: "WH-1", StatusName: "Closed", DueDate: timePtr(due), StatusChangedAt: timePtr(changed), LeadTimeDays: floatPtr(2)},
		{TicketNumber: "WH-2", StatusName: "Open", DueDate: timePtr(due)},
		{TicketNumber: "WH-3", StatusName: "Closed", DueDate: timePtr(due), StatusChangedAt: timePtr(changed), LeadTimeDays: floatPtr(4)},
	}

	card := Score(tickets, evalTime, SubstringClassifier{})

	if card.Total != 3 {
		t.Errorf("total: expected 3, got %d", card.Total)
	}
	if card.Resolved != 2 {
		t.Errorf("resolved: expected 2, got %d", card.Resolved)
	}
	if card.Overdue != 1 {
		t.Errorf("overdue: expected 1, got %d", card.Overdue)
	}
	if card.OnTimeResolved != 2 {
		t.Errorf("on-time resolved: expected 2, got %d", card.OnTimeResolved)
	}
	if card.AvgResolutionTime == nil || !almostEqual(*card.AvgResolutionTime, 3.0) {
		t.Errorf("avg resolution time: expected 3.0, got %v", card.AvgResolutionTime)
	}
	// (2/3)*40 + (2/2)*30 + (1-1/3)*30 = 76.67
	if !almostEqual(card.ComplianceRate, 76.67) {
		t.Errorf("compliance rate: expected 76.67, got %v", card.ComplianceRate)
	}
}

func TestScoreNullableFields(t *testing.T) {
	future := evalTime.Add(72 * time.Hour)

	tickets := []domain.TicketVersion{
		// Resolved without a lead time: excluded from the average.
		{TicketNumber: "WH-1", StatusName: "Resolved", DueDate: timePtr(future)},
		// No due date: never overdue, never on-time.
		{TicketNumber: "WH-2", StatusName: "Open", StatusChangedAt: timePtr(evalTime)},
		// No status_changed_at: not on-time.
		{TicketNumber: "WH-3", StatusName: "Closed", DueDate: timePtr(future), LeadTimeDays: floatPtr(5)},
	}

	card := Score(tickets, evalTime, SubstringClassifier{})

	if card.Overdue != 0 {
		t.Errorf("overdue: expected 0, got %d", card.Overdue)
	}
	if card.OnTimeResolved != 0 {
		t.Errorf("on-time resolved: expected 0, got %d", card.OnTimeResolved)
	}
	if card.AvgResolutionTime == nil || !almostEqual(*card.AvgResolutionTime, 5.0) {
		t.Errorf("avg resolution time: expected 5.0, got %v", card.AvgResolutionTime)
	}
}

func TestScoreOverdueIgnoresClosed(t *testing.T) {
	pastDue := evalTime.Add(-48 * time.Hour)

	tickets := []domain.TicketVersion{
		{TicketNumber: "WH-1", StatusName: "Closed", DueDate: timePtr(pastDue)},
		{TicketNumber: "WH-2", StatusName: "Reopened", DueDate: timePtr(pastDue)},
	}

	card := Score(tickets, evalTime, SubstringClassifier{})
	if card.Overdue != 1 {
		t.Errorf("overdue: expected only the non-closed ticket, got %d", card.Overdue)
	}
	if card.Reopened != 1 {
		t.Errorf("reopened: expected 1, got %d", card.Reopened)
	}
}

func TestScoreBoundsUnderWellFormedInput(t *testing.T) {
	due := evalTime.Add(-24 * time.Hour)
	futureDue := evalTime.Add(24 * time.Hour)

	cases := []struct {
		name    string
		tickets []domain.TicketVersion
	}{
		{
			name: "all overdue nothing resolved",
			tickets: []domain.TicketVersion{
				{TicketNumber: "WH-1", StatusName: "Open", DueDate: timePtr(due)},
				{TicketNumber: "WH-2", StatusName: "Open", DueDate: timePtr(due)},
			},
		},
		{
			name: "all resolved on time",
			tickets: []domain.TicketVersion{
				{TicketNumber: "WH-1", StatusName: "Closed", DueDate: timePtr(futureDue), StatusChangedAt: timePtr(evalTime)},
				{TicketNumber: "WH-2", StatusName: "Closed", DueDate: timePtr(futureDue), StatusChangedAt: timePtr(evalTime)},
			},
		},
		{
			name: "resolved late",
			tickets: []domain.TicketVersion{
				{TicketNumber: "WH-1", StatusName: "Closed", DueDate: timePtr(due), StatusChangedAt: timePtr(evalTime)},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			card := Score(tc.tickets, evalTime, SubstringClassifier{})
			if card.ComplianceRate < 0 || card.ComplianceRate > 100 {
				t.Errorf("compliance rate out of bounds: %v", card.ComplianceRate)
			}
		})
	}
}

func TestScoreReopenedAfterOnTimeCloseExceeds100(t *testing.T) {
	// A ticket reopened after an on-time first closure still counts as
	// on-time but no longer as resolved, which pushes the rate past
	// 100. Historical behavior, intentionally not clamped.
	futureDue := evalTime.Add(24 * time.Hour)
	changed := evalTime.Add(-time.Hour)

	tickets := []domain.TicketVersion{
		{TicketNumber: "WH-1", StatusName: "Closed", DueDate: timePtr(futureDue), StatusChangedAt: timePtr(changed)},
		{TicketNumber: "WH-2", StatusName: "Reopened", DueDate: timePtr(futureDue), StatusChangedAt: timePtr(changed)},
	}

	card := Score(tickets, evalTime, SubstringClassifier{})
	// (1/2)*40 + (2/1)*30 + (1-0)*30 = 110
	if !almostEqual(card.ComplianceRate, 110) {
		t.Errorf("expected unclamped rate 110, got %v", card.ComplianceRate)
	}
}

func TestSubstringClassifier(t *testing.T) {
	cls := SubstringClassifier{}

	cases := []struct {
		status   string
		resolved bool
		closed   bool
		reopened bool
	}{
		{"Closed", true, true, false},
		{"Auto-Closed", true, true, false},
		{"RESOLVED - pending review", true, false, false},
		{"Reopened", false, false, true},
		{"Open", false, false, false},
		{"", false, false, false},
	}

	for _, tc := range cases {
		if got := cls.IsResolved(tc.status); got != tc.resolved {
			t.Errorf("IsResolved(%q): expected %v, got %v", tc.status, tc.resolved, got)
		}
		if got := cls.IsClosed(tc.status); got != tc.closed {
			t.Errorf("IsClosed(%q): expected %v, got %v", tc.status, tc.closed, got)
		}
		if got := cls.IsReopened(tc.status); got != tc.reopened {
			t.Errorf("IsReopened(%q): expected %v, got %v", tc.status, tc.reopened, got)
		}
	}
}
