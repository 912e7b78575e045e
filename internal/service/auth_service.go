package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/civic-report-service/internal/auth"
	"github.com/spec-kit/civic-report-service/internal/config"
	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/repository"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

// AuthService coordinates staff login and token-based identity resolution.
type AuthService struct {
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, staffRepo repository.StaffRepository) *AuthService {
	return &AuthService{
		staff:      staffRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// LoginStaff authenticates a staff member and returns a signed token.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*domain.StaffMember, string, time.Time, error) {
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	if !staff.Active {
		return nil, "", time.Time{}, apperrors.NewForbidden("staff account inactive")
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthenticated("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateStaffToken(staff)
	if err != nil {
		return nil, "", time.Time{}, apperrors.MapError(err)
	}
	return staff, token, exp, nil
}

// ResolveIdentity resolves a reporter identity from a session token.
func (s *AuthService) ResolveIdentity(tokenStr string) (*domain.Reporter, error) {
	claims, err := s.tokenMgr.ParseToken(tokenStr)
	if err != nil {
		return nil, apperrors.NewUnauthenticated("invalid token")
	}
	if claims.Subject != domain.SubjectTypeReporter {
		return nil, apperrors.NewUnauthenticated("reporter token required")
	}
	return &domain.Reporter{
		Name:      claims.Name,
		Email:     claims.Email,
		AvatarURL: claims.Avatar,
	}, nil
}

// SeedStaff creates a staff account when one does not already exist. Used
// for the DSN-less development mode.
func (s *AuthService) SeedStaff(ctx context.Context, name, email, password string, role domain.StaffRole) (*domain.StaffMember, error) {
	if existing, err := s.staff.GetByEmail(ctx, email); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	staff := &domain.StaffMember{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		return nil, err
	}
	return staff, nil
}
