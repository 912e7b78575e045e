package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/events"
	"github.com/spec-kit/civic-report-service/internal/media"
	"github.com/spec-kit/civic-report-service/internal/repository"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

// IssueService coordinates the issue lifecycle: submission, listing and
// status transitions.
type IssueService struct {
	issues     repository.IssueRepository
	blobs      media.BlobStore
	analyzer   media.PhotoAnalyzer
	policy     TransitionPolicy
	dispatcher events.Dispatcher
}

// IssueDependencies bundles collaborators for the issue service.
type IssueDependencies struct {
	IssueRepo  repository.IssueRepository
	BlobStore  media.BlobStore
	Analyzer   media.PhotoAnalyzer
	Policy     TransitionPolicy
	Dispatcher events.Dispatcher
}

// NewIssueService constructs the service.
func NewIssueService(deps IssueDependencies) *IssueService {
	policy := deps.Policy
	if policy == nil {
		policy = AnyTransition{}
	}
	return &IssueService{
		issues:     deps.IssueRepo,
		blobs:      deps.BlobStore,
		analyzer:   deps.Analyzer,
		policy:     policy,
		dispatcher: deps.Dispatcher,
	}
}

// Upload carries one attachment's declared filename and bytes.
type Upload struct {
	FileName string
	Data     []byte
}

// SubmitInput describes a citizen report payload.
type SubmitInput struct {
	Category    string
	Description string
	Latitude    float64
	Longitude   float64
	Reporter    domain.Reporter
	AvatarFile  *Upload
	Photo       *Upload
	Audio       *Upload
	Video       *Upload
}

// ListFilter narrows issue listings. All present filters apply
// conjunctively; the department filter rewrites to its category set.
type ListFilter struct {
	Status     *string
	Category   *string
	Department *string
}

// SubmitIssue validates the report, persists attachments and stores the
// issue. All validation runs before any byte is written, and any blob-store
// failure aborts the submission without inserting a record.
func (s *IssueService) SubmitIssue(ctx context.Context, input SubmitInput) (*domain.Issue, error) {
	if err := validateSubmit(&input); err != nil {
		return nil, err
	}
	category := domain.IssueCategory(input.Category)

	// Reserve storage keys up front so an allow-list rejection can never
	// follow a successful write.
	avatarKey, err := keyFor(media.KindAvatar, input.AvatarFile)
	if err != nil {
		return nil, err
	}
	photoKey, err := keyFor(media.KindPhoto, input.Photo)
	if err != nil {
		return nil, err
	}
	audioKey, err := keyFor(media.KindAudio, input.Audio)
	if err != nil {
		return nil, err
	}
	videoKey, err := keyFor(media.KindVideo, input.Video)
	if err != nil {
		return nil, err
	}

	reporter := input.Reporter
	if avatarKey != nil {
		if err := s.blobs.Save(ctx, *avatarKey, input.AvatarFile.Data); err != nil {
			return nil, apperrors.NewStorageFailure(string(media.KindAvatar), err)
		}
		url := s.blobs.URL(*avatarKey)
		reporter.AvatarURL = &url
	}

	var analysis *string
	if photoKey != nil {
		if err := s.blobs.Save(ctx, *photoKey, input.Photo.Data); err != nil {
			return nil, apperrors.NewStorageFailure(string(media.KindPhoto), err)
		}
		if s.analyzer != nil {
			if text, err := s.analyzer.Analyze(ctx, input.Photo.Data); err == nil {
				analysis = &text
			}
		}
	}
	if audioKey != nil {
		if err := s.blobs.Save(ctx, *audioKey, input.Audio.Data); err != nil {
			return nil, apperrors.NewStorageFailure(string(media.KindAudio), err)
		}
	}
	if videoKey != nil {
		if err := s.blobs.Save(ctx, *videoKey, input.Video.Data); err != nil {
			return nil, apperrors.NewStorageFailure(string(media.KindVideo), err)
		}
	}

	now := time.Now().UTC()
	issue := &domain.Issue{
		ID:          uuid.NewString(),
		Category:    category,
		Description: strings.TrimSpace(input.Description),
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		PhotoKey:    photoKey,
		AudioKey:    audioKey,
		VideoKey:    videoKey,
		AIAnalysis:  analysis,
		Status:      domain.StatusReported,
		Reporter:    reporter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.issues.Insert(ctx, issue); err != nil {
		return nil, apperrors.MapError(err)
	}

	email := issue.Reporter.Email
	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueSubmitted,
		IssueID: issue.ID,
		Actor:   events.Actor{Type: domain.SubjectTypeReporter, ReporterEmail: &email},
		Payload: events.IssueSubmittedPayload{
			Category:  issue.Category,
			Latitude:  issue.Latitude,
			Longitude: issue.Longitude,
			HasPhoto:  photoKey != nil,
			HasAudio:  audioKey != nil,
			HasVideo:  videoKey != nil,
		},
	})
	return issue, nil
}

// GetIssue fetches a single issue.
func (s *IssueService) GetIssue(ctx context.Context, id string) (*domain.Issue, error) {
	issue, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return issue, nil
}

// ListIssues scans the repository with conjunctive filters, preserving
// insertion order.
func (s *IssueService) ListIssues(ctx context.Context, filter ListFilter) ([]domain.Issue, error) {
	repoFilter := repository.IssueFilter{}

	if filter.Status != nil {
		status := domain.IssueStatus(*filter.Status)
		if !status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *filter.Status})
		}
		repoFilter.Statuses = []domain.IssueStatus{status}
	}
	if filter.Category != nil {
		category := domain.IssueCategory(*filter.Category)
		if !category.Valid() {
			return nil, apperrors.NewInvalidCategory(*filter.Category)
		}
		repoFilter.Categories = []domain.IssueCategory{category}
	}
	if filter.Department != nil {
		categories := domain.CategoriesForDepartment(domain.Department(*filter.Department))
		if len(categories) == 0 {
			return nil, apperrors.NewValidationError("unknown department", map[string]any{"department": *filter.Department})
		}
		repoFilter.Categories = intersectCategories(repoFilter.Categories, categories)
	}

	issues, err := s.issues.List(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return issues, nil
}

// UpdateStatus transitions an issue. Only status and updated_at change.
func (s *IssueService) UpdateStatus(ctx context.Context, staffID string, issueID string, newStatus domain.IssueStatus) (*domain.Issue, error) {
	if !newStatus.Valid() {
		return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(newStatus)})
	}

	current, err := s.issues.GetByID(ctx, issueID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	oldStatus := current.Status
	if !s.policy.Allowed(oldStatus, newStatus) {
		return nil, apperrors.NewValidationError("status transition not allowed", map[string]any{
			"from": string(oldStatus),
			"to":   string(newStatus),
		})
	}

	issue, err := s.issues.Update(ctx, issueID, func(issue *domain.Issue) {
		issue.Status = newStatus
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:    events.EventIssueStatusChanged,
		IssueID: issue.ID,
		Actor:   staffActor(staffID),
		Payload: events.IssueStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
	return issue, nil
}

func validateSubmit(input *SubmitInput) error {
	if strings.TrimSpace(input.Category) == "" {
		return apperrors.NewMissingField("category")
	}
	if strings.TrimSpace(input.Description) == "" {
		return apperrors.NewMissingField("description")
	}
	if strings.TrimSpace(input.Reporter.Name) == "" {
		return apperrors.NewMissingField("user_name")
	}
	if strings.TrimSpace(input.Reporter.Email) == "" {
		return apperrors.NewMissingField("user_email")
	}
	if !domain.IssueCategory(input.Category).Valid() {
		return apperrors.NewInvalidCategory(input.Category)
	}
	if input.Latitude < -90 || input.Latitude > 90 || input.Longitude < -180 || input.Longitude > 180 {
		return apperrors.NewInvalidLocation(input.Latitude, input.Longitude)
	}
	return nil
}

func keyFor(kind media.Kind, upload *Upload) (*string, error) {
	if upload == nil {
		return nil, nil
	}
	key, err := media.StorageKey(kind, upload.FileName)
	if err != nil {
		return nil, err
	}
	return &key, nil
}

func intersectCategories(current, restrict []domain.IssueCategory) []domain.IssueCategory {
	if len(current) == 0 {
		return restrict
	}
	var result []domain.IssueCategory
	for _, c := range current {
		for _, r := range restrict {
			if c == r {
				result = append(result, c)
				break
			}
		}
	}
	if result == nil {
		// Disjoint category and department filters match nothing; an
		// impossible sentinel keeps the scan empty instead of unfiltered.
		result = []domain.IssueCategory{domain.IssueCategory("")}
	}
	return result
}

func mapRepoError(err error) error {
	if err == repository.ErrNotFound {
		return apperrors.NewNotFound("issue", nil)
	}
	return apperrors.MapError(err)
}

func (s *IssueService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func staffActor(staffID string) events.Actor {
	actor := events.Actor{Type: domain.SubjectTypeStaff}
	if staffID != "" {
		actor.StaffID = &staffID
	}
	return actor
}
