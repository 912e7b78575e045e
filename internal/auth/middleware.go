package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/repository"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	SubjectType domain.SubjectType
	Reporter    *domain.Reporter
	Staff       *domain.StaffMember
}

// Middleware validates bearer tokens and loads principals.
type Middleware struct {
	tokens *TokenManager
	staff  repository.StaffRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, staff repository.StaffRepository) *Middleware {
	return &Middleware{tokens: tokens, staff: staff}
}

// RequireStaff enforces an active staff principal.
func (m *Middleware) RequireStaff(c *fiber.Ctx) error {
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	if principal == nil || principal.SubjectType != domain.SubjectTypeStaff || principal.Staff == nil {
		return apperrors.NewUnauthenticated("staff token required")
	}
	if !principal.Staff.Active {
		return apperrors.NewForbidden("staff account inactive")
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

// OptionalIdentity resolves a reporter identity when a bearer token is
// present. Requests without a token pass through untouched; a token that
// is present but invalid is rejected.
func (m *Middleware) OptionalIdentity(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	principal, err := m.resolve(c)
	if err != nil {
		return err
	}
	if principal != nil {
		c.Locals(principalKey, principal)
	}
	return c.Next()
}

func (m *Middleware) resolve(c *fiber.Ctx) (*Principal, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, apperrors.NewUnauthenticated("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthenticated("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthenticated("invalid token")
	}

	switch claims.Subject {
	case domain.SubjectTypeReporter:
		return &Principal{
			SubjectType: domain.SubjectTypeReporter,
			Reporter: &domain.Reporter{
				Name:      claims.Name,
				Email:     claims.Email,
				AvatarURL: claims.Avatar,
			},
		}, nil
	case domain.SubjectTypeStaff:
		staff, err := m.staff.GetByID(c.Context(), claims.SubjectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewUnauthenticated("staff not found")
			}
			return nil, apperrors.MapError(err)
		}
		return &Principal{SubjectType: domain.SubjectTypeStaff, Staff: staff}, nil
	default:
		return nil, apperrors.NewUnauthenticated("unknown subject")
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
