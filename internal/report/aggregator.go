package report

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// Group is one partition key of a report: a KPI, a user, or a KPI
// within one user.
type Group struct {
	ID             string
	Label          string
	DepartmentName string
}

// GroupQuery pairs a group with the store queries that feed its row.
// Accountable, when set, is an extra raw-row count (the per-user
// report counts versions where the user is accountable, without
// deduplication).
type GroupQuery struct {
	Group       Group
	Versions    VersionQuery
	Accountable *VersionQuery
}

// MetricsRow is one output row of a report.
type MetricsRow struct {
	GroupID           string   `json:"group_id"`
	GroupLabel        string   `json:"group_label"`
	DepartmentName    string   `json:"department_name"`
	Total             int      `json:"total"`
	Resolved          int      `json:"resolved"`
	Overdue           int      `json:"overdue"`
	Reopened          int      `json:"reopened"`
	Accountable       int      `json:"accountable"`
	OnTimeResolved    int      `json:"on_time_resolved"`
	AvgResolutionTime *float64 `json:"avg_resolution_time"`
	ComplianceRate    float64  `json:"compliance_rate"`
}

// Aggregator runs fetch, resolve and score per group and assembles
// the report rows. It is read-only and shares no state between calls.
type Aggregator struct {
	store         VersionStore
	classifier    StatusClassifier
	now           func() time.Time
	maxConcurrent int
}

// Option customizes an Aggregator.
type Option func(*Aggregator)

// WithClassifier replaces the default substring status classifier.
func WithClassifier(cls StatusClassifier) Option {
	return func(a *Aggregator) { a.classifier = cls }
}

// WithNow overrides the evaluation clock.
func WithNow(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithMaxConcurrent caps in-flight group queries.
func WithMaxConcurrent(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.maxConcurrent = n
		}
	}
}

// NewAggregator builds an Aggregator over the given store.
func NewAggregator(store VersionStore, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:         store,
		classifier:    SubstringClassifier{},
		now:           time.Now,
		maxConcurrent: 8,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate produces one MetricsRow per group, in the order the
// groups were given. Group queries run concurrently up to the
// configured cap; any fetch failure aborts the whole report, no
// partial result is returned. When suppressEmpty is set, groups with
// zero tickets are dropped from the output.
func (a *Aggregator) Aggregate(ctx context.Context, queries []GroupQuery, suppressEmpty bool) ([]MetricsRow, error) {
	rows := make([]MetricsRow, len(queries))
	now := a.now()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(a.maxConcurrent)

	for i, gq := range queries {
		i, gq := i, gq
		eg.Go(func() error {
			row, err := a.scoreGroup(egCtx, gq, now)
			if err != nil {
				return fmt.Errorf("group %q: %w", gq.Group.Label, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	if !suppressEmpty {
		return rows, nil
	}
	kept := make([]MetricsRow, 0, len(rows))
	for _, row := range rows {
		if row.Total > 0 {
			kept = append(kept, row)
		}
	}
	return kept, nil
}

func (a *Aggregator) scoreGroup(ctx context.Context, gq GroupQuery, now time.Time) (MetricsRow, error) {
	versions, err := a.store.ListVersions(ctx, gq.Versions)
	if err != nil {
		return MetricsRow{}, err
	}

	card := Score(ResolveLatest(versions), now, a.classifier)
	row := MetricsRow{
		GroupID:           gq.Group.ID,
		GroupLabel:        gq.Group.Label,
		DepartmentName:    gq.Group.DepartmentName,
		Total:             card.Total,
		Resolved:          card.Resolved,
		Overdue:           card.Overdue,
		Reopened:          card.Reopened,
		OnTimeResolved:    card.OnTimeResolved,
		AvgResolutionTime: card.AvgResolutionTime,
		ComplianceRate:    card.ComplianceRate,
	}

	if gq.Accountable != nil {
		count, err := a.store.CountVersions(ctx, *gq.Accountable)
		if err != nil {
			return MetricsRow{}, err
		}
		row.Accountable = count
	}
	return row, nil
}

// Summary aggregates a report's rows for the dashboard header cards.
type Summary struct {
	Groups   int `json:"groups"`
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Overdue  int `json:"overdue"`
}

// Summarize totals the countable columns across rows.
func Summarize(rows []MetricsRow) Summary {
	s := Summary{Groups: len(rows)}
	for _, row := range rows {
		s.Total += row.Total
		s.Resolved += row.Resolved
		s.Overdue += row.Overdue
	}
	return s
}
