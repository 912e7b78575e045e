package handlers

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report-service/internal/api/dto"
	"github.com/spec-kit/civic-report-service/internal/auth"
	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/service"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

// IssuesHandler manages citizen-facing issue endpoints.
type IssuesHandler struct {
	service *service.IssueService
}

// NewIssuesHandler constructs handler.
func NewIssuesHandler(issueService *service.IssueService) *IssuesHandler {
	return &IssuesHandler{service: issueService}
}

// SubmitIssue POST /issues (multipart form).
func (h *IssuesHandler) SubmitIssue(c *fiber.Ctx) error {
	req := dto.SubmitIssueRequest{
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		UserName:    c.FormValue("user_name"),
		UserEmail:   c.FormValue("user_email"),
		UserAvatar:  c.FormValue("user_avatar"),
	}

	// A bearer token, when present, overrides the self-declared identity.
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Reporter != nil {
		req.UserName = principal.Reporter.Name
		req.UserEmail = principal.Reporter.Email
		if principal.Reporter.AvatarURL != nil {
			req.UserAvatar = *principal.Reporter.AvatarURL
		}
	}

	if err := validateStruct(&req); err != nil {
		return err
	}

	latitude, err := parseCoordinate(c, "latitude")
	if err != nil {
		return err
	}
	longitude, err := parseCoordinate(c, "longitude")
	if err != nil {
		return err
	}

	input := service.SubmitInput{
		Category:    req.Category,
		Description: req.Description,
		Latitude:    latitude,
		Longitude:   longitude,
		Reporter: domain.Reporter{
			Name:  req.UserName,
			Email: req.UserEmail,
		},
	}
	if req.UserAvatar != "" {
		avatar := req.UserAvatar
		input.Reporter.AvatarURL = &avatar
	}

	if input.AvatarFile, err = readUpload(c, "avatar_file"); err != nil {
		return err
	}
	if input.Photo, err = readUpload(c, "photo"); err != nil {
		return err
	}
	if input.Audio, err = readUpload(c, "audio"); err != nil {
		return err
	}
	if input.Video, err = readUpload(c, "video"); err != nil {
		return err
	}

	issue, err := h.service.SubmitIssue(c.Context(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromIssue(issue)})
}

// ListIssues GET /issues.
func (h *IssuesHandler) ListIssues(c *fiber.Ctx) error {
	filter := service.ListFilter{}
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		filter.Status = &status
	}
	if category := strings.TrimSpace(c.Query("category")); category != "" {
		filter.Category = &category
	}
	if department := strings.TrimSpace(c.Query("department")); department != "" {
		filter.Department = &department
	}

	issues, err := h.service.ListIssues(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssues(issues)})
}

// GetIssue GET /issues/:id.
func (h *IssuesHandler) GetIssue(c *fiber.Ctx) error {
	issue, err := h.service.GetIssue(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromIssue(issue)})
}

func parseCoordinate(c *fiber.Ctx, field string) (float64, error) {
	raw := strings.TrimSpace(c.FormValue(field))
	if raw == "" {
		return 0, apperrors.NewMissingField(field)
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, apperrors.NewValidationError(field+" must be a number", map[string]any{"field": field})
	}
	return value, nil
}

func readUpload(c *fiber.Ctx, field string) (*service.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// fiber reports a missing part as an error; the field is optional.
		return nil, nil
	}
	data, err := readFileHeader(header)
	if err != nil {
		return nil, apperrors.NewStorageFailure(field, err)
	}
	return &service.Upload{FileName: header.Filename, Data: data}, nil
}

func readFileHeader(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
