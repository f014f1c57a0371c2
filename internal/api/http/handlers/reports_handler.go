package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/logiops/ops-portal/internal/api/dto"
	"github.com/logiops/ops-portal/internal/report"
	"github.com/logiops/ops-portal/internal/service"
	apperrors "github.com/logiops/ops-portal/pkg/util"
)

// ReportsHandler serves the compliance report endpoints.
type ReportsHandler struct {
	reports *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reports *service.ReportService) *ReportsHandler {
	return &ReportsHandler{reports: reports}
}

// KPIWatch GET /reports/kpis.
func (h *ReportsHandler) KPIWatch(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	rep, err := h.reports.KPIWatch(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(rep)})
}

// UserPerformance GET /reports/users.
func (h *ReportsHandler) UserPerformance(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	rep, err := h.reports.UserPerformance(c.UserContext(), criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(rep)})
}

// UserKPIBreakdown GET /reports/users/:id/kpis.
func (h *ReportsHandler) UserKPIBreakdown(c *fiber.Ctx) error {
	userID := strings.TrimSpace(c.Params("id"))
	if userID == "" {
		return apperrors.NewValidationError("user id required", nil)
	}
	criteria, err := parseCriteria(c)
	if err != nil {
		return err
	}
	rep, err := h.reports.UserKPIBreakdown(c.UserContext(), userID, criteria)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": reportResponse(rep)})
}

func reportResponse(rep *service.Report) dto.ReportResponse {
	return dto.ReportResponse{
		Rows:        rep.Rows,
		Summary:     rep.Summary,
		GeneratedAt: rep.GeneratedAt,
	}
}

func parseCriteria(c *fiber.Ctx) (report.Criteria, error) {
	criteria := report.Criteria{}
	if v := strings.TrimSpace(c.Query("department")); v != "" {
		criteria.Department = &v
	}
	if v := strings.TrimSpace(c.Query("service_provider")); v != "" {
		criteria.ServiceProvider = &v
	}
	if v := strings.TrimSpace(c.Query("status")); v != "" {
		criteria.Status = &v
	}
	start, err := parseTime(c.Query("start_date"))
	if err != nil {
		return criteria, apperrors.NewValidationError("invalid start_date", nil)
	}
	criteria.StartDate = start
	end, err := parseTime(c.Query("end_date"))
	if err != nil {
		return criteria, apperrors.NewValidationError("invalid end_date", nil)
	}
	criteria.EndDate = end
	return criteria, nil
}

func parseTime(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
