package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/civic-report-service/internal/domain"
	"github.com/spec-kit/civic-report-service/internal/repository"
	apperrors "github.com/spec-kit/civic-report-service/pkg/util"
)

const summaryCacheKey = "analytics:summary"

// Summary aggregates the repository snapshot. Every category and status
// appears in the maps, zero counts included.
type Summary struct {
	TotalIssues                  int                          `json:"total_issues"`
	IssuesByCategory             map[domain.IssueCategory]int `json:"issues_by_category"`
	IssuesByStatus               map[domain.IssueStatus]int   `json:"issues_by_status"`
	AverageResolutionTimeSeconds *float64                     `json:"average_resolution_time_seconds"`
}

// AnalyticsService computes summary statistics over all issues, with an
// optional Redis cache in front of the scan.
type AnalyticsService struct {
	issues   repository.IssueRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewAnalyticsService constructs the service. A nil cache client disables
// caching.
func NewAnalyticsService(issues repository.IssueRepository, cache *redis.Client, cacheTTL time.Duration, logger *zap.Logger) *AnalyticsService {
	return &AnalyticsService{
		issues:   issues,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Summarize returns the current summary, serving from cache when fresh.
func (s *AnalyticsService) Summarize(ctx context.Context) (*Summary, error) {
	if cached := s.fromCache(ctx); cached != nil {
		return cached, nil
	}

	issues, err := s.issues.List(ctx, repository.IssueFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := Compute(issues)
	s.toCache(ctx, summary)
	return summary, nil
}

// Compute aggregates a snapshot in a single pass. Resolved issues with a
// nonpositive created-to-updated delta are excluded from the mean, guarding
// against clock skew and same-instant resolutions.
func Compute(issues []domain.Issue) *Summary {
	summary := &Summary{
		TotalIssues:      len(issues),
		IssuesByCategory: make(map[domain.IssueCategory]int, len(domain.Categories())),
		IssuesByStatus:   make(map[domain.IssueStatus]int, len(domain.Statuses())),
	}
	for _, c := range domain.Categories() {
		summary.IssuesByCategory[c] = 0
	}
	for _, st := range domain.Statuses() {
		summary.IssuesByStatus[st] = 0
	}

	var totalSeconds float64
	var resolvedCount int
	for i := range issues {
		issue := &issues[i]
		summary.IssuesByCategory[issue.Category]++
		summary.IssuesByStatus[issue.Status]++
		if issue.Status == domain.StatusResolved {
			delta := issue.UpdatedAt.Sub(issue.CreatedAt).Seconds()
			if delta > 0 {
				totalSeconds += delta
				resolvedCount++
			}
		}
	}
	if resolvedCount > 0 {
		avg := totalSeconds / float64(resolvedCount)
		summary.AverageResolutionTimeSeconds = &avg
	}
	return summary
}

func (s *AnalyticsService) fromCache(ctx context.Context) *Summary {
	if s.cache == nil || s.cacheTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, summaryCacheKey).Bytes()
	if err != nil {
		return nil
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil
	}
	return &summary
}

func (s *AnalyticsService) toCache(ctx context.Context, summary *Summary) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}
	raw, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, summaryCacheKey, raw, s.cacheTTL).Err(); err != nil && s.logger != nil {
		s.logger.Debug("summary cache write failed", zap.Error(err))
	}
}
