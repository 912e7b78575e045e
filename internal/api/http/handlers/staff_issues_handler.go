package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report-service/internal/api/dto"
	"github.com/spec-kit/civic-report-service/internal/auth"
	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/service"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

// StaffIssuesHandler manages staff-only issue endpoints.
type StaffIssuesHandler struct {
	service *service.IssueService
}

// NewStaffIssuesHandler constructs handler.
func NewStaffIssuesHandler(issueService *service.IssueService) *StaffIssuesHandler {
	return &StaffIssuesHandler{service: issueService}
}

// UpdateStatus PATCH /issues/:id/status.
func (h *StaffIssuesHandler) UpdateStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return apperrors.NewUnauthenticated("staff token required")
	}

	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	issue, err := h.service.UpdateStatus(c.Context(), principal.Staff.ID, c.Params("id"), domain.IssueStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssue(issue)})
}
