package service

import "github.com/spec-kit/civic-report-service/internal/domain"

// TransitionPolicy decides whether a status change is legal. Every deployed
// variant of this workflow lets staff move an issue between any two states,
// so the permissive policy is the default; the ordered policy is opt-in for
// municipalities that want forward-only progress.
type TransitionPolicy interface {
	Allowed(from, to domain.IssueStatus) bool
}

// AnyTransition permits every move within the status enumeration.
type AnyTransition struct{}

func (AnyTransition) Allowed(_, _ domain.IssueStatus) bool {
	return true
}

var orderedTransitions = map[domain.IssueStatus][]domain.IssueStatus{
	domain.StatusReported:     {domain.StatusAcknowledged},
	domain.StatusAcknowledged: {domain.StatusInProgress},
	domain.StatusInProgress:   {domain.StatusResolved},
	domain.StatusResolved:     {},
}

// OrderedTransitions permits only the next lifecycle state, plus
// re-applying the current one.
type OrderedTransitions struct{}

func (OrderedTransitions) Allowed(from, to domain.IssueStatus) bool {
	if from == to {
		return true
	}
	for _, candidate := range orderedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// PolicyFor selects the transition policy from configuration.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return OrderedTransitions{}
	}
	return AnyTransition{}
}
