package auth_test

import (
	"testing"

	"github.com/spec-kit/civic-report-service/internal/auth"
	"github.com/spec-kit/civic-report-service/internal/domain"
)

func TestStaffTokenRoundTrip(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 5)
	staff := &domain.StaffMember{
		ID:    "staff-1",
		Name:  "Jordan",
		Email: "jordan@city.gov",
		Role:  domain.StaffRoleAgent,
	}

	token, _, err := tm.GenerateStaffToken(staff)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != domain.SubjectTypeStaff || claims.SubjectID != "staff-1" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Role == nil || *claims.Role != domain.StaffRoleAgent {
		t.Fatalf("expected agent role, got %v", claims.Role)
	}
}

func TestReporterTokenCarriesIdentity(t *testing.T) {
	tm := auth.NewTokenManager("test-secret", 5)
	avatar := "/uploads/avatar_abc.png"
	token, _, err := tm.GenerateReporterToken("rep-1", domain.Reporter{
		Name:      "Sam",
		Email:     "sam@example.com",
		AvatarURL: &avatar,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := tm.ParseToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.Subject != domain.SubjectTypeReporter {
		t.Fatalf("expected reporter subject, got %s", claims.Subject)
	}
	if claims.Name != "Sam" || claims.Email != "sam@example.com" {
		t.Fatalf("identity fields lost: %+v", claims)
	}
	if claims.Avatar == nil || *claims.Avatar != avatar {
		t.Fatalf("avatar lost: %v", claims.Avatar)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := auth.NewTokenManager("secret-a", 5).GenerateReporterToken("rep-1", domain.Reporter{Name: "Sam", Email: "sam@example.com"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := auth.NewTokenManager("secret-b", 5).ParseToken(token); err == nil {
		t.Fatal("expected parse failure with wrong secret")
	}
}
