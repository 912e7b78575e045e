package events

import (
	"time"

	"github.com/spec-kit/civic-report-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueSubmitted     EventType = "issue_submitted"
	EventIssueStatusChanged EventType = "issue_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type          domain.SubjectType `json:"type"`
	ReporterEmail *string            `json:"reporter_email,omitempty"`
	StaffID       *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	IssueID   string      `json:"issue_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// IssueSubmittedPayload payload.
type IssueSubmittedPayload struct {
	Category  domain.IssueCategory `json:"category"`
	Latitude  float64              `json:"latitude"`
	Longitude float64              `json:"longitude"`
	HasPhoto  bool                 `json:"has_photo"`
	HasAudio  bool                 `json:"has_audio"`
	HasVideo  bool                 `json:"has_video"`
}

// IssueStatusChangedPayload payload.
type IssueStatusChangedPayload struct {
	OldStatus domain.IssueStatus `json:"old_status"`
	NewStatus domain.IssueStatus `json:"new_status"`
}
