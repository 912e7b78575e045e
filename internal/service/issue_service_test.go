package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/media"
	"github.com/spec-kit/civic-report-service/internal/repository"
	"github.com/spec-kit/civic-report-service/internal/service"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

type fixture struct {
	svc   *service.IssueService
	repo  repository.IssueRepository
	blobs *media.MemoryStore
}

func newFixture(t *testing.T, policy service.TransitionPolicy) *fixture {
	t.Helper()
	repo := repository.NewMemoryIssueRepository()
	blobs := media.NewMemoryStore()
	svc := service.NewIssueService(service.IssueDependencies{
		IssueRepo: repo,
		BlobStore: blobs,
		Analyzer:  media.StubAnalyzer{},
		Policy:    policy,
	})
	return &fixture{svc: svc, repo: repo, blobs: blobs}
}

func validInput() service.SubmitInput {
	return service.SubmitInput{
		Category:    "pothole",
		Description: "large pothole on main street",
		Latitude:    40.0,
		Longitude:   -73.0,
		Reporter:    domain.Reporter{Name: "Alex", Email: "alex@example.com"},
	}
}

func TestSubmitIssueDefaults(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	issue, err := f.svc.SubmitIssue(ctx, validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if issue.Status != domain.StatusReported {
		t.Fatalf("expected status reported, got %s", issue.Status)
	}
	if !issue.CreatedAt.Equal(issue.UpdatedAt) {
		t.Fatalf("expected created_at == updated_at, got %v and %v", issue.CreatedAt, issue.UpdatedAt)
	}
	if issue.PhotoKey != nil || issue.AudioKey != nil || issue.VideoKey != nil || issue.AIAnalysis != nil {
		t.Fatalf("expected no attachment fields, got %+v", issue)
	}

	stored, err := f.repo.GetByID(ctx, issue.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored.Description != issue.Description || stored.Reporter != issue.Reporter {
		t.Fatalf("stored issue differs: %+v vs %+v", stored, issue)
	}
}

func TestSubmitIssueRejectsInvalidLocation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	cases := []struct{ lat, lon float64 }{
		{95.0, -73.0},
		{-95.0, 0},
		{40.0, 181.0},
		{40.0, -181.0},
	}
	for _, tc := range cases {
		input := validInput()
		input.Latitude = tc.lat
		input.Longitude = tc.lon
		_, err := f.svc.SubmitIssue(ctx, input)
		if code := apperrors.CodeOf(err); code != "INVALID_LOCATION" {
			t.Fatalf("lat=%v lon=%v: expected INVALID_LOCATION, got %v", tc.lat, tc.lon, err)
		}
	}

	count, err := f.repo.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected empty repository, got %d issues", count)
	}
}

func TestSubmitIssueRejectsUnknownCategory(t *testing.T) {
	f := newFixture(t, nil)
	input := validInput()
	input.Category = "earthquake"
	_, err := f.svc.SubmitIssue(context.Background(), input)
	if code := apperrors.CodeOf(err); code != "INVALID_CATEGORY" {
		t.Fatalf("expected INVALID_CATEGORY, got %v", err)
	}
}

func TestSubmitIssueRejectsMissingFields(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	mutations := []struct {
		name   string
		mutate func(*service.SubmitInput)
	}{
		{"category", func(in *service.SubmitInput) { in.Category = "" }},
		{"description", func(in *service.SubmitInput) { in.Description = "   " }},
		{"user_name", func(in *service.SubmitInput) { in.Reporter.Name = "" }},
		{"user_email", func(in *service.SubmitInput) { in.Reporter.Email = "" }},
	}
	for _, tc := range mutations {
		input := validInput()
		tc.mutate(&input)
		_, err := f.svc.SubmitIssue(ctx, input)
		if code := apperrors.CodeOf(err); code != "MISSING_FIELD" {
			t.Fatalf("%s: expected MISSING_FIELD, got %v", tc.name, err)
		}
	}
}

func TestSubmitIssueRejectsBadAttachmentWithoutPersisting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	input := validInput()
	input.Photo = &service.Upload{FileName: "x.exe", Data: []byte("mz")}
	_, err := f.svc.SubmitIssue(ctx, input)
	if code := apperrors.CodeOf(err); code != "INVALID_ATTACHMENT_TYPE" {
		t.Fatalf("expected INVALID_ATTACHMENT_TYPE, got %v", err)
	}
	if f.blobs.Len() != 0 {
		t.Fatalf("expected no blobs persisted, got %d", f.blobs.Len())
	}
	count, _ := f.repo.Count(ctx)
	if count != 0 {
		t.Fatalf("expected empty repository, got %d issues", count)
	}
}

func TestSubmitIssueRejectsBadVideoAfterValidPhoto(t *testing.T) {
	// Validation of every attachment runs before any byte is written.
	ctx := context.Background()
	f := newFixture(t, nil)

	input := validInput()
	input.Photo = &service.Upload{FileName: "ok.jpg", Data: []byte("jpeg")}
	input.Video = &service.Upload{FileName: "clip.txt", Data: []byte("nope")}
	_, err := f.svc.SubmitIssue(ctx, input)
	if code := apperrors.CodeOf(err); code != "INVALID_ATTACHMENT_TYPE" {
		t.Fatalf("expected INVALID_ATTACHMENT_TYPE, got %v", err)
	}
	if f.blobs.Len() != 0 {
		t.Fatalf("expected no blobs persisted, got %d", f.blobs.Len())
	}
}

func TestSubmitIssueWithPhotoSetsAnalysis(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	input := validInput()
	input.Photo = &service.Upload{FileName: "street.jpg", Data: []byte("jpeg-bytes")}
	issue, err := f.svc.SubmitIssue(ctx, input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if issue.PhotoKey == nil {
		t.Fatal("expected photo key")
	}
	if issue.AIAnalysis == nil || *issue.AIAnalysis == "" {
		t.Fatal("expected ai analysis text for photo submission")
	}
	if _, ok := f.blobs.Get(*issue.PhotoKey); !ok {
		t.Fatalf("photo bytes not stored under %q", *issue.PhotoKey)
	}
}

func TestSubmitIssueAvatarUploadOverridesURL(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	declared := "https://example.com/me.png"
	input := validInput()
	input.Reporter.AvatarURL = &declared
	input.AvatarFile = &service.Upload{FileName: "me.png", Data: []byte("png")}

	issue, err := f.svc.SubmitIssue(ctx, input)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if issue.Reporter.AvatarURL == nil || *issue.Reporter.AvatarURL == declared {
		t.Fatalf("expected uploaded avatar URL to win, got %v", issue.Reporter.AvatarURL)
	}
}

type failingBlobStore struct{}

func (failingBlobStore) Save(context.Context, string, []byte) error {
	return errors.New("disk full")
}

func (failingBlobStore) URL(key string) string { return "/uploads/" + key }

func TestSubmitIssueStorageFailureAbortsSubmission(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryIssueRepository()
	svc := service.NewIssueService(service.IssueDependencies{
		IssueRepo: repo,
		BlobStore: failingBlobStore{},
		Analyzer:  media.StubAnalyzer{},
	})

	input := validInput()
	input.Photo = &service.Upload{FileName: "street.jpg", Data: []byte("jpeg")}
	_, err := svc.SubmitIssue(ctx, input)
	if code := apperrors.CodeOf(err); code != "STORAGE_FAILURE" {
		t.Fatalf("expected STORAGE_FAILURE, got %v", err)
	}
	count, _ := repo.Count(ctx)
	if count != 0 {
		t.Fatalf("expected no issue stored after storage failure, got %d", count)
	}
}

func TestUpdateStatusPermissiveByDefault(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	issue, err := f.svc.SubmitIssue(ctx, validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// reported -> resolved skips intermediate states and is allowed.
	updated, err := f.svc.UpdateStatus(ctx, "staff-1", issue.ID, domain.StatusResolved)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.StatusResolved {
		t.Fatalf("expected resolved, got %s", updated.Status)
	}
	if !updated.CreatedAt.Equal(issue.CreatedAt) {
		t.Fatalf("created_at changed on status update")
	}
	if updated.UpdatedAt.Before(issue.UpdatedAt) {
		t.Fatalf("updated_at moved backwards")
	}

	// Backwards movement is also allowed under the permissive policy.
	if _, err := f.svc.UpdateStatus(ctx, "staff-1", issue.ID, domain.StatusReported); err != nil {
		t.Fatalf("backwards update: %v", err)
	}
}

func TestUpdateStatusIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	issue, err := f.svc.SubmitIssue(ctx, validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	first, err := f.svc.UpdateStatus(ctx, "staff-1", issue.ID, domain.StatusInProgress)
	if err != nil {
		t.Fatalf("first update: %v", err)
	}
	second, err := f.svc.UpdateStatus(ctx, "staff-1", issue.ID, domain.StatusInProgress)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if second.Status != domain.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", second.Status)
	}
	if second.UpdatedAt.Before(first.UpdatedAt) {
		t.Fatalf("updated_at moved backwards across idempotent updates")
	}
}

func TestUpdateStatusStrictPolicyRejectsSkips(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, service.OrderedTransitions{})

	issue, err := f.svc.SubmitIssue(ctx, validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := f.svc.UpdateStatus(ctx, "staff-1", issue.ID, domain.StatusResolved); err == nil {
		t.Fatal("expected strict policy to reject reported -> resolved")
	}
	steps := []domain.IssueStatus{domain.StatusAcknowledged, domain.StatusInProgress, domain.StatusResolved}
	for _, next := range steps {
		if _, err := f.svc.UpdateStatus(ctx, "staff-1", issue.ID, next); err != nil {
			t.Fatalf("step to %s: %v", next, err)
		}
	}
}

func TestUpdateStatusUnknownIssue(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.UpdateStatus(context.Background(), "staff-1", "nope", domain.StatusResolved)
	if code := apperrors.CodeOf(err); code != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	issue, err := f.svc.SubmitIssue(ctx, validInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	_, err = f.svc.UpdateStatus(ctx, "staff-1", issue.ID, domain.IssueStatus("closed"))
	if code := apperrors.CodeOf(err); code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
}

func TestListIssuesCategoryFilterPreservesOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	categories := []string{"pothole", "pothole", "garbage"}
	ids := make([]string, 0, len(categories))
	for _, category := range categories {
		input := validInput()
		input.Category = category
		issue, err := f.svc.SubmitIssue(ctx, input)
		if err != nil {
			t.Fatalf("submit %s: %v", category, err)
		}
		ids = append(ids, issue.ID)
	}

	category := "pothole"
	issues, err := f.svc.ListIssues(ctx, service.ListFilter{Category: &category})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("expected 2 pothole issues, got %d", len(issues))
	}
	if issues[0].ID != ids[0] || issues[1].ID != ids[1] {
		t.Fatalf("insertion order not preserved: %s, %s", issues[0].ID, issues[1].ID)
	}
}

func TestListIssuesDepartmentFilterMapsToCategories(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for _, category := range []string{"pothole", "water", "garbage"} {
		input := validInput()
		input.Category = category
		if _, err := f.svc.SubmitIssue(ctx, input); err != nil {
			t.Fatalf("submit %s: %v", category, err)
		}
	}

	department := "roads"
	issues, err := f.svc.ListIssues(ctx, service.ListFilter{Department: &department})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(issues) != 1 || issues[0].Category != domain.CategoryPothole {
		t.Fatalf("expected one roads issue, got %+v", issues)
	}
}

func TestListIssuesRejectsUnknownFilterValues(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	bad := "nonsense"
	if _, err := f.svc.ListIssues(ctx, service.ListFilter{Status: &bad}); err == nil {
		t.Fatal("expected error for unknown status filter")
	}
	if _, err := f.svc.ListIssues(ctx, service.ListFilter{Category: &bad}); err == nil {
		t.Fatal("expected error for unknown category filter")
	}
	if _, err := f.svc.ListIssues(ctx, service.ListFilter{Department: &bad}); err == nil {
		t.Fatal("expected error for unknown department filter")
	}
}
