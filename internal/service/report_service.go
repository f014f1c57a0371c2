package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/logiops/ops-portal/internal/domain"
	"github.com/logiops/ops-portal/internal/observability"
	"github.com/logiops/ops-portal/internal/report"
	"github.com/logiops/ops-portal/internal/repository"
	apperrors "github.com/logiops/ops-portal/pkg/util"
)

// ReportCache stores computed report payloads. Get returns nil on a
// miss; cache failures are soft and never fail a report.
type ReportCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Report is one assembled report: ordered rows plus the summary the
// dashboard header cards render.
type Report struct {
	Rows        []report.MetricsRow `json:"rows"`
	Summary     report.Summary      `json:"summary"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// ReportService runs the metrics aggregation engine over the ticket
// record store and the grouping directories.
type ReportService struct {
	versions   repository.TicketVersionRepository
	kpis       repository.KPIRepository
	users      repository.UserRepository
	reference  repository.ReferenceRepository
	aggregator *report.Aggregator
	cache      ReportCache
	cacheTTL   time.Duration
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	VersionRepo   repository.TicketVersionRepository
	KPIRepo       repository.KPIRepository
	UserRepo      repository.UserRepository
	ReferenceRepo repository.ReferenceRepository
	Aggregator    *report.Aggregator
	Cache         ReportCache
	CacheTTL      time.Duration
	Logger        *zap.Logger
	Metrics       *observability.Metrics
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		versions:   deps.VersionRepo,
		kpis:       deps.KPIRepo,
		users:      deps.UserRepo,
		reference:  deps.ReferenceRepo,
		aggregator: deps.Aggregator,
		cache:      deps.Cache,
		cacheTTL:   deps.CacheTTL,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// KPIWatch builds the per-KPI compliance report. Zero-ticket KPIs are
// retained so operators see coverage gaps.
func (s *ReportService) KPIWatch(ctx context.Context, criteria report.Criteria) (*Report, error) {
	key := reportKey("kpis", criteria)
	if cached := s.fromCache(ctx, key, "kpi_watch"); cached != nil {
		return cached, nil
	}
	rep, err := s.buildKPIWatch(ctx, criteria)
	if err != nil {
		return nil, apperrors.NewReportFailure("kpi watch", err)
	}
	s.toCache(ctx, key, rep)
	return rep, nil
}

// RefreshKPIWatch recomputes the unfiltered KPI watch and overwrites
// its cache entry. Used by the snapshot worker.
func (s *ReportService) RefreshKPIWatch(ctx context.Context) error {
	criteria := report.Criteria{}
	rep, err := s.buildKPIWatch(ctx, criteria)
	if err != nil {
		return err
	}
	s.toCache(ctx, reportKey("kpis", criteria), rep)
	return nil
}

// UserPerformance builds the per-user report over the assignable
// user directory. Zero-ticket users are retained.
func (s *ReportService) UserPerformance(ctx context.Context, criteria report.Criteria) (*Report, error) {
	key := reportKey("users", criteria)
	if cached := s.fromCache(ctx, key, "user_performance"); cached != nil {
		return cached, nil
	}

	start := time.Now()
	users, err := s.users.ListAssignable(ctx)
	if err != nil {
		return nil, apperrors.NewReportFailure("user performance", err)
	}

	queries := make([]report.GroupQuery, 0, len(users))
	for _, user := range users {
		accountable := report.VersionQuery{Accountability: ptr(user.ID), Criteria: criteria}
		queries = append(queries, report.GroupQuery{
			Group:       report.Group{ID: user.ID, Label: user.FullName},
			Versions:    report.VersionQuery{AssignedTo: ptr(user.ID), Criteria: criteria},
			Accountable: &accountable,
		})
	}

	rows, err := s.aggregator.Aggregate(ctx, queries, false)
	if err != nil {
		return nil, apperrors.NewReportFailure("user performance", err)
	}

	rep := s.assembled(rows)
	s.metrics.RecordReport("user_performance", false, time.Since(start))
	s.toCache(ctx, key, rep)
	return rep, nil
}

// UserKPIBreakdown builds the per-KPI report for one user. KPIs with
// no tickets for the user are suppressed to avoid noise.
func (s *ReportService) UserKPIBreakdown(ctx context.Context, userID string, criteria report.Criteria) (*Report, error) {
	key := reportKey("users:"+userID+":kpis", criteria)
	if cached := s.fromCache(ctx, key, "user_kpi_breakdown"); cached != nil {
		return cached, nil
	}

	start := time.Now()
	kpis, err := s.kpis.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewReportFailure("user kpi breakdown", err)
	}

	queries := make([]report.GroupQuery, 0, len(kpis))
	for _, kpi := range kpis {
		queries = append(queries, report.GroupQuery{
			Group: report.Group{ID: kpi.ID, Label: kpi.Name, DepartmentName: kpi.DepartmentName},
			Versions: report.VersionQuery{
				AssignedTo: ptr(userID),
				KPIName:    ptr(kpi.Name),
				Criteria:   criteria,
			},
		})
	}

	rows, err := s.aggregator.Aggregate(ctx, queries, true)
	if err != nil {
		return nil, apperrors.NewReportFailure("user kpi breakdown", err)
	}

	rep := s.assembled(rows)
	s.metrics.RecordReport("user_kpi_breakdown", false, time.Since(start))
	s.toCache(ctx, key, rep)
	return rep, nil
}

// ReferenceData holds the filter dropdown contents.
type ReferenceData struct {
	Departments      []domain.ReferenceItem `json:"departments"`
	ServiceProviders []domain.ReferenceItem `json:"service_providers"`
	Statuses         []domain.ReferenceItem `json:"statuses"`
}

// Reference returns the dropdown reference lists. A failure of any
// list aborts the whole response rather than returning a partial set.
func (s *ReportService) Reference(ctx context.Context) (*ReferenceData, error) {
	departments, err := s.reference.ListDepartments(ctx)
	if err != nil {
		return nil, apperrors.NewReportFailure("reference data", err)
	}
	providers, err := s.reference.ListServiceProviders(ctx)
	if err != nil {
		return nil, apperrors.NewReportFailure("reference data", err)
	}
	statuses, err := s.reference.ListStatuses(ctx)
	if err != nil {
		return nil, apperrors.NewReportFailure("reference data", err)
	}
	return &ReferenceData{
		Departments:      departments,
		ServiceProviders: providers,
		Statuses:         statuses,
	}, nil
}

func (s *ReportService) buildKPIWatch(ctx context.Context, criteria report.Criteria) (*Report, error) {
	start := time.Now()
	kpis, err := s.kpis.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	queries := make([]report.GroupQuery, 0, len(kpis))
	for _, kpi := range kpis {
		queries = append(queries, report.GroupQuery{
			Group:    report.Group{ID: kpi.ID, Label: kpi.Name, DepartmentName: kpi.DepartmentName},
			Versions: report.VersionQuery{KPIName: ptr(kpi.Name), Criteria: criteria},
		})
	}

	rows, err := s.aggregator.Aggregate(ctx, queries, false)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordReport("kpi_watch", false, time.Since(start))
	return s.assembled(rows), nil
}

func (s *ReportService) assembled(rows []report.MetricsRow) *Report {
	return &Report{
		Rows:        rows,
		Summary:     report.Summarize(rows),
		GeneratedAt: time.Now().UTC(),
	}
}

func (s *ReportService) fromCache(ctx context.Context, key, kind string) *Report {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	payload, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("report cache read failed", zap.String("key", key), zap.Error(err))
		return nil
	}
	if payload == nil {
		return nil
	}
	var rep Report
	if err := json.Unmarshal(payload, &rep); err != nil {
		s.logger.Warn("report cache payload corrupt", zap.String("key", key), zap.Error(err))
		return nil
	}
	s.metrics.RecordReport(kind, true, 0)
	return &rep
}

func (s *ReportService) toCache(ctx context.Context, key string, rep *Report) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	payload, err := json.Marshal(rep)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// reportKey derives a stable cache key from the report kind and the
// criteria values.
func reportKey(kind string, c report.Criteria) string {
	parts := []string{
		"report", kind,
		deref(c.Department),
		deref(c.ServiceProvider),
		deref(c.Status),
		derefTime(c.StartDate),
		derefTime(c.EndDate),
	}
	return strings.Join(parts, ":")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func ptr[T any](v T) *T {
	return &v
}
