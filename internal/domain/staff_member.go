package domain

import "time"

// SubjectType distinguishes authenticated principals.
type SubjectType string

const (
	SubjectTypeReporter SubjectType = "REPORTER"
	SubjectTypeStaff    SubjectType = "STAFF"
)

// StaffRole enumerates staff permission levels.
type StaffRole string

const (
	StaffRoleAgent StaffRole = "AGENT"
	StaffRoleAdmin StaffRole = "ADMIN"
)

// StaffMember is a municipal employee who reviews and transitions issues.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
