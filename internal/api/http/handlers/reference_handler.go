package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logiops/ops-portal/internal/api/dto"
	"github.com/logiops/ops-portal/internal/domain"
	"github.com/logiops/ops-portal/internal/service"
)

// ReferenceHandler serves the filter dropdown data.
type ReferenceHandler struct {
	reports *service.ReportService
}

// NewReferenceHandler constructs handler.
func NewReferenceHandler(reports *service.ReportService) *ReferenceHandler {
	return &ReferenceHandler{reports: reports}
}

// List GET /reference.
func (h *ReferenceHandler) List(c *fiber.Ctx) error {
	data, err := h.reports.Reference(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ReferenceResponse{
		Departments:      referenceItems(data.Departments),
		ServiceProviders: referenceItems(data.ServiceProviders),
		Statuses:         referenceItems(data.Statuses),
	}})
}

func referenceItems(items []domain.ReferenceItem) []dto.ReferenceItemResponse {
	result := make([]dto.ReferenceItemResponse, 0, len(items))
	for _, item := range items {
		result = append(result, dto.ReferenceItemResponse{ID: item.ID, Name: item.Name})
	}
	return result
}
