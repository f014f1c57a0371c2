package dto

import (
	"time"

	"github.com/logiops/ops-portal/internal/report"
)

// ReportResponse wraps an assembled report.
type ReportResponse struct {
	Rows        []report.MetricsRow `json:"rows"`
	Summary     report.Summary      `json:"summary"`
	GeneratedAt time.Time           `json:"generated_at"`
}

// ReferenceItemResponse is one dropdown entry.
type ReferenceItemResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ReferenceResponse holds the filter dropdown lists.
type ReferenceResponse struct {
	Departments      []ReferenceItemResponse `json:"departments"`
	ServiceProviders []ReferenceItemResponse `json:"service_providers"`
	Statuses         []ReferenceItemResponse `json:"statuses"`
}
