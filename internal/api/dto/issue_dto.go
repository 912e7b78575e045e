package dto

import (
	"time"

	"github.com/spec-kit/civic-report-service/internal/domain"
)

// SubmitIssueRequest captures the multipart form fields of a report.
// Attachment files arrive separately as multipart file parts.
type SubmitIssueRequest struct {
	Category    string `validate:"required"`
	Description string `validate:"required"`
	UserName    string `validate:"required"`
	UserEmail   string `validate:"required,email"`
	UserAvatar  string
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// IssueResponse mirrors the public issue representation.
type IssueResponse struct {
	ID            string               `json:"id"`
	Category      domain.IssueCategory `json:"category"`
	Description   string               `json:"description"`
	Latitude      float64              `json:"latitude"`
	Longitude     float64              `json:"longitude"`
	PhotoFilename *string              `json:"photo_filename"`
	AudioFilename *string              `json:"audio_filename"`
	VideoFilename *string              `json:"video_filename"`
	AIAnalysis    *string              `json:"ai_analysis"`
	Status        domain.IssueStatus   `json:"status"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
	UserName      string               `json:"user_name"`
	UserEmail     string               `json:"user_email"`
	UserAvatar    *string              `json:"user_avatar"`
}

// FromIssue converts the domain entity to its response form.
func FromIssue(issue *domain.Issue) IssueResponse {
	return IssueResponse{
		ID:            issue.ID,
		Category:      issue.Category,
		Description:   issue.Description,
		Latitude:      issue.Latitude,
		Longitude:     issue.Longitude,
		PhotoFilename: issue.PhotoKey,
		AudioFilename: issue.AudioKey,
		VideoFilename: issue.VideoKey,
		AIAnalysis:    issue.AIAnalysis,
		Status:        issue.Status,
		CreatedAt:     issue.CreatedAt,
		UpdatedAt:     issue.UpdatedAt,
		UserName:      issue.Reporter.Name,
		UserEmail:     issue.Reporter.Email,
		UserAvatar:    issue.Reporter.AvatarURL,
	}
}

// FromIssues converts a slice of issues, preserving order.
func FromIssues(issues []domain.Issue) []IssueResponse {
	items := make([]IssueResponse, 0, len(issues))
	for i := range issues {
		items = append(items, FromIssue(&issues[i]))
	}
	return items
}
