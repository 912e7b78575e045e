package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/repository"
	"github.com/spec-kit/civic-report-service/internal/service"
)

func resolvedIssue(id string, category domain.IssueCategory, resolutionSeconds int) domain.Issue {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return domain.Issue{
		ID:          id,
		Category:    category,
		Description: "resolved issue",
		Status:      domain.StatusResolved,
		Reporter:    domain.Reporter{Name: "Alex", Email: "alex@example.com"},
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Duration(resolutionSeconds) * time.Second),
	}
}

func TestComputeEmptySnapshot(t *testing.T) {
	summary := service.Compute(nil)
	if summary.TotalIssues != 0 {
		t.Fatalf("expected 0 total, got %d", summary.TotalIssues)
	}
	if summary.AverageResolutionTimeSeconds != nil {
		t.Fatalf("expected nil average, got %v", *summary.AverageResolutionTimeSeconds)
	}
	for _, c := range domain.Categories() {
		if count, ok := summary.IssuesByCategory[c]; !ok || count != 0 {
			t.Fatalf("expected zero count for category %s", c)
		}
	}
	for _, s := range domain.Statuses() {
		if count, ok := summary.IssuesByStatus[s]; !ok || count != 0 {
			t.Fatalf("expected zero count for status %s", s)
		}
	}
}

func TestComputeCounts(t *testing.T) {
	issues := []domain.Issue{
		resolvedIssue("a", domain.CategoryPothole, 10),
		resolvedIssue("b", domain.CategoryPothole, 20),
		{
			ID:       "c",
			Category: domain.CategoryGarbage,
			Status:   domain.StatusReported,
		},
	}

	summary := service.Compute(issues)
	if summary.TotalIssues != 3 {
		t.Fatalf("expected 3 total, got %d", summary.TotalIssues)
	}
	if summary.IssuesByCategory[domain.CategoryPothole] != 2 {
		t.Fatalf("expected 2 potholes, got %d", summary.IssuesByCategory[domain.CategoryPothole])
	}
	if summary.IssuesByCategory[domain.CategoryWater] != 0 {
		t.Fatalf("expected zero-count water entry")
	}
	if summary.IssuesByStatus[domain.StatusResolved] != 2 || summary.IssuesByStatus[domain.StatusReported] != 1 {
		t.Fatalf("status counts wrong: %+v", summary.IssuesByStatus)
	}
	if summary.AverageResolutionTimeSeconds == nil || *summary.AverageResolutionTimeSeconds != 15 {
		t.Fatalf("expected average 15s, got %v", summary.AverageResolutionTimeSeconds)
	}
}

func TestComputeExcludesNonpositiveResolutionDeltas(t *testing.T) {
	issues := []domain.Issue{
		resolvedIssue("a", domain.CategoryPothole, 10),
		resolvedIssue("b", domain.CategoryPothole, 0),
	}

	summary := service.Compute(issues)
	// The zero-delta resolution is dropped from the mean, so the average
	// is exactly 10, not 5.
	if summary.AverageResolutionTimeSeconds == nil || *summary.AverageResolutionTimeSeconds != 10 {
		t.Fatalf("expected average 10s, got %v", summary.AverageResolutionTimeSeconds)
	}
}

func TestComputeAllResolutionsExcludedYieldsNilAverage(t *testing.T) {
	issues := []domain.Issue{
		resolvedIssue("a", domain.CategoryPothole, 0),
		resolvedIssue("b", domain.CategoryWater, -5),
	}
	summary := service.Compute(issues)
	if summary.AverageResolutionTimeSeconds != nil {
		t.Fatalf("expected nil average, got %v", *summary.AverageResolutionTimeSeconds)
	}
}

func TestSummarizeWithoutCacheScansRepository(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryIssueRepository()
	issue := resolvedIssue("a", domain.CategoryStreetlight, 30)
	if err := repo.Insert(ctx, &issue); err != nil {
		t.Fatalf("insert: %v", err)
	}

	svc := service.NewAnalyticsService(repo, nil, 0, nil)
	summary, err := svc.Summarize(ctx)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.TotalIssues != 1 {
		t.Fatalf("expected 1 total, got %d", summary.TotalIssues)
	}
	if summary.IssuesByCategory[domain.CategoryStreetlight] != 1 {
		t.Fatalf("expected 1 streetlight issue, got %+v", summary.IssuesByCategory)
	}
}
