package repository

import (
	"context"
	"errors"

	"github.com/spec-kit/civic-report-service/internal/domain"
)

var (
	// ErrNotFound is returned when no record matches the given id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateID is returned when inserting an id that already exists.
	// Ids are generated upstream, so hitting this indicates a bug.
	ErrDuplicateID = errors.New("duplicate id")
)

// IssueFilter narrows a scan. Empty slices match everything; multiple
// fields combine conjunctively.
type IssueFilter struct {
	Statuses   []domain.IssueStatus
	Categories []domain.IssueCategory
}

// Matches reports whether the issue satisfies each present predicate.
func (f IssueFilter) Matches(issue *domain.Issue) bool {
	if len(f.Statuses) > 0 && !containsStatus(f.Statuses, issue.Status) {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, issue.Category) {
		return false
	}
	return true
}

func containsStatus(set []domain.IssueStatus, s domain.IssueStatus) bool {
	for _, candidate := range set {
		if candidate == s {
			return true
		}
	}
	return false
}

func containsCategory(set []domain.IssueCategory, c domain.IssueCategory) bool {
	for _, candidate := range set {
		if candidate == c {
			return true
		}
	}
	return false
}

// Mutator applies an in-place change to an issue during Update. The
// repository stamps UpdatedAt after the mutator runs.
type Mutator func(issue *domain.Issue)

// IssueRepository is an insertion-ordered keyed store of issues. Both the
// Postgres and the in-memory implementation satisfy it, so the lifecycle
// and analytics logic stay storage-agnostic.
type IssueRepository interface {
	Insert(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]domain.Issue, error)
	Update(ctx context.Context, id string, mutate Mutator) (*domain.Issue, error)
	Count(ctx context.Context) (int, error)
}
