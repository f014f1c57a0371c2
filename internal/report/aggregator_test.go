package report

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/logiops/ops-portal/internal/domain"
)

// memStore serves ticket versions from memory, applying the same
// constraints the SQL boundary would.
type memStore struct {
	versions  []domain.TicketVersion
	failKPIs  map[string]error
	listCalls atomic.Int64
}

func (s *memStore) ListVersions(_ context.Context, q VersionQuery) ([]domain.TicketVersion, error) {
	s.listCalls.Add(1)
	if q.KPIName != nil {
		if err, ok := s.failKPIs[*q.KPIName]; ok {
			return nil, err
		}
	}
	var result []domain.TicketVersion
	for _, v := range s.versions {
		if matchesQuery(v, q) {
			result = append(result, v)
		}
	}
	return result, nil
}

func (s *memStore) CountVersions(_ context.Context, q VersionQuery) (int, error) {
	var count int
	for _, v := range s.versions {
		if matchesQuery(v, q) {
			count++
		}
	}
	return count, nil
}

func matchesQuery(v domain.TicketVersion, q VersionQuery) bool {
	if q.AssignedTo != nil && (v.AssignedTo == nil || *v.AssignedTo != *q.AssignedTo) {
		return false
	}
	if q.Accountability != nil && (v.Accountability == nil || *v.Accountability != *q.Accountability) {
		return false
	}
	if q.KPIName != nil && v.KPIName != *q.KPIName {
		return false
	}
	return q.Criteria.Matches(v)
}

func strPtr(s string) *string { return &s }

func kpiQuery(id, name string) GroupQuery {
	return GroupQuery{
		Group:    Group{ID: id, Label: name},
		Versions: VersionQuery{KPIName: strPtr(name)},
	}
}

func TestAggregateCountsEachTicketOnce(t *testing.T) {
	t1 := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	store := &memStore{versions: []domain.TicketVersion{
		{TicketNumber: "WH-1", Version: 1, CreatedAt: t1, StatusName: "Open", KPIName: "Dock Turnaround"},
		{TicketNumber: "WH-1", Version: 2, CreatedAt: t2, StatusName: "Closed", KPIName: "Dock Turnaround"},
	}}

	agg := NewAggregator(store)
	rows, err := agg.Aggregate(context.Background(), []GroupQuery{kpiQuery("k1", "Dock Turnaround")}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Total != 1 {
		t.Errorf("total: expected versions collapsed to 1 ticket, got %d", rows[0].Total)
	}
	if rows[0].Resolved != 1 {
		t.Errorf("resolved: expected latest (closed) version to count once, got %d", rows[0].Resolved)
	}
}

func TestAggregateEmptyGroup(t *testing.T) {
	store := &memStore{}
	agg := NewAggregator(store)

	rows, err := agg.Aggregate(context.Background(), []GroupQuery{kpiQuery("k1", "Putaway Accuracy")}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected the empty group to be retained, got %d rows", len(rows))
	}
	row := rows[0]
	if row.Total != 0 || row.Resolved != 0 || row.Overdue != 0 {
		t.Errorf("expected zero counts, got %+v", row)
	}
	if row.AvgResolutionTime != nil {
		t.Errorf("expected nil average, got %v", *row.AvgResolutionTime)
	}
	if row.ComplianceRate != 100 {
		t.Errorf("expected compliance 100, got %v", row.ComplianceRate)
	}
}

func TestAggregateDateFilterExcludingEverything(t *testing.T) {
	created := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	store := &memStore{versions: []domain.TicketVersion{
		{TicketNumber: "WH-1", CreatedAt: created, StatusName: "Open", KPIName: "Dock Turnaround"},
	}}

	start := created.Add(24 * time.Hour)
	end := created.Add(48 * time.Hour)
	query := GroupQuery{
		Group: Group{ID: "k1", Label: "Dock Turnaround"},
		Versions: VersionQuery{
			KPIName:  strPtr("Dock Turnaround"),
			Criteria: Criteria{StartDate: &start, EndDate: &end},
		},
	}

	agg := NewAggregator(store)
	rows, err := agg.Aggregate(context.Background(), []GroupQuery{query}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Total != 0 || rows[0].ComplianceRate != 100 {
		t.Errorf("fully filtered group should score like an empty one, got %+v", rows[0])
	}
}

func TestAggregateSuppressEmpty(t *testing.T) {
	store := &memStore{versions: []domain.TicketVersion{
		{TicketNumber: "WH-1", CreatedAt: time.Now(), StatusName: "Open", KPIName: "Dock Turnaround"},
	}}

	queries := []GroupQuery{
		kpiQuery("k1", "Dock Turnaround"),
		kpiQuery("k2", "Putaway Accuracy"),
	}

	agg := NewAggregator(store)

	rows, err := agg.Aggregate(context.Background(), queries, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].GroupLabel != "Dock Turnaround" {
		t.Fatalf("expected only the non-empty group, got %+v", rows)
	}

	rows, err = agg.Aggregate(context.Background(), queries, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected zero-ticket groups retained, got %d rows", len(rows))
	}
}

func TestAggregatePreservesGroupOrder(t *testing.T) {
	store := &memStore{}
	queries := []GroupQuery{
		kpiQuery("k1", "Dock Turnaround"),
		kpiQuery("k2", "Putaway Accuracy"),
		kpiQuery("k3", "Pick Rate"),
		kpiQuery("k4", "Shrinkage"),
	}

	agg := NewAggregator(store, WithMaxConcurrent(2))
	rows, err := agg.Aggregate(context.Background(), queries, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, q := range queries {
		if rows[i].GroupID != q.Group.ID {
			t.Errorf("row %d: expected group %s, got %s", i, q.Group.ID, rows[i].GroupID)
		}
	}
}

func TestAggregateFetchFailureAbortsReport(t *testing.T) {
	store := &memStore{
		failKPIs: map[string]error{"Putaway Accuracy": errors.New("connection reset")},
	}
	queries := []GroupQuery{
		kpiQuery("k1", "Dock Turnaround"),
		kpiQuery("k2", "Putaway Accuracy"),
	}

	agg := NewAggregator(store)
	rows, err := agg.Aggregate(context.Background(), queries, false)
	if err == nil {
		t.Fatal("expected a report-level failure")
	}
	if rows != nil {
		t.Errorf("expected no partial rows, got %d", len(rows))
	}
	if !strings.Contains(err.Error(), "Putaway Accuracy") {
		t.Errorf("expected failing group in error, got %q", err)
	}
}

func TestAggregateAccountableCount(t *testing.T) {
	now := time.Now()
	store := &memStore{versions: []domain.TicketVersion{
		{TicketNumber: "WH-1", Version: 1, CreatedAt: now, StatusName: "Open", Accountability: strPtr("u1")},
		{TicketNumber: "WH-1", Version: 2, CreatedAt: now.Add(time.Hour), StatusName: "Open", Accountability: strPtr("u1")},
		{TicketNumber: "WH-2", Version: 1, CreatedAt: now, StatusName: "Open", AssignedTo: strPtr("u1")},
	}}

	accountable := VersionQuery{Accountability: strPtr("u1")}
	queries := []GroupQuery{{
		Group:       Group{ID: "u1", Label: "Dana Reyes"},
		Versions:    VersionQuery{AssignedTo: strPtr("u1")},
		Accountable: &accountable,
	}}

	agg := NewAggregator(store)
	rows, err := agg.Aggregate(context.Background(), queries, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Total != 1 {
		t.Errorf("assigned total: expected 1, got %d", rows[0].Total)
	}
	// Accountable is a raw version count, deliberately not deduplicated.
	if rows[0].Accountable != 2 {
		t.Errorf("accountable: expected 2 raw rows, got %d", rows[0].Accountable)
	}
}

func TestSummarize(t *testing.T) {
	rows := []MetricsRow{
		{Total: 3, Resolved: 2, Overdue: 1},
		{Total: 5, Resolved: 1, Overdue: 0},
		{},
	}
	s := Summarize(rows)
	if s.Groups != 3 || s.Total != 8 || s.Resolved != 3 || s.Overdue != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
}
