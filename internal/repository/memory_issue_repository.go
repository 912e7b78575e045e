package repository

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/civic-report-service/internal/domain"
)

// memoryIssueRepository keeps issues in process memory, preserving
// insertion order. It backs tests and DSN-less development runs.
type memoryIssueRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.Issue
	issues []*domain.Issue
}

// NewMemoryIssueRepository returns an empty in-memory implementation.
func NewMemoryIssueRepository() IssueRepository {
	return &memoryIssueRepository{
		byID: make(map[string]*domain.Issue),
	}
}

func (r *memoryIssueRepository) Insert(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[issue.ID]; exists {
		return ErrDuplicateID
	}
	stored := cloneIssue(issue)
	r.byID[issue.ID] = stored
	r.issues = append(r.issues, stored)
	return nil
}

func (r *memoryIssueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	issue, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneIssue(issue), nil
}

func (r *memoryIssueRepository) List(_ context.Context, filter IssueFilter) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Issue, 0, len(r.issues))
	for _, issue := range r.issues {
		if filter.Matches(issue) {
			result = append(result, *cloneIssue(issue))
		}
	}
	return result, nil
}

func (r *memoryIssueRepository) Update(_ context.Context, id string, mutate Mutator) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}

	// Mutate a copy and swap so a concurrent reader never observes a
	// partially written record.
	next := cloneIssue(current)
	mutate(next)
	next.UpdatedAt = time.Now().UTC()
	if next.UpdatedAt.Before(current.UpdatedAt) {
		next.UpdatedAt = current.UpdatedAt
	}

	*current = *next
	return cloneIssue(current), nil
}

func (r *memoryIssueRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.issues), nil
}

func cloneIssue(issue *domain.Issue) *domain.Issue {
	copied := *issue
	copied.PhotoKey = cloneString(issue.PhotoKey)
	copied.AudioKey = cloneString(issue.AudioKey)
	copied.VideoKey = cloneString(issue.VideoKey)
	copied.AIAnalysis = cloneString(issue.AIAnalysis)
	copied.Reporter.AvatarURL = cloneString(issue.Reporter.AvatarURL)
	return &copied
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	copied := *s
	return &copied
}
