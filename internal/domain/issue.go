package domain

import "time"

// IssueCategory enumerates the closed set of report categories.
type IssueCategory string

const (
	CategoryPothole     IssueCategory = "pothole"
	CategoryStreetlight IssueCategory = "streetlight"
	CategoryGarbage     IssueCategory = "garbage"
	CategoryWater       IssueCategory = "water"
	CategoryOthers      IssueCategory = "others"
)

// Categories returns all categories in declaration order.
func Categories() []IssueCategory {
	return []IssueCategory{
		CategoryPothole,
		CategoryStreetlight,
		CategoryGarbage,
		CategoryWater,
		CategoryOthers,
	}
}

// Valid reports whether the category belongs to the enumeration.
func (c IssueCategory) Valid() bool {
	switch c {
	case CategoryPothole, CategoryStreetlight, CategoryGarbage, CategoryWater, CategoryOthers:
		return true
	}
	return false
}

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	StatusReported     IssueStatus = "reported"
	StatusAcknowledged IssueStatus = "acknowledged"
	StatusInProgress   IssueStatus = "in_progress"
	StatusResolved     IssueStatus = "resolved"
)

// Statuses returns all statuses in lifecycle order.
func Statuses() []IssueStatus {
	return []IssueStatus{
		StatusReported,
		StatusAcknowledged,
		StatusInProgress,
		StatusResolved,
	}
}

// Valid reports whether the status belongs to the enumeration.
func (s IssueStatus) Valid() bool {
	switch s {
	case StatusReported, StatusAcknowledged, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Reporter identifies who filed an issue. Name and email are required;
// the avatar URL is optional and may point at an uploaded image.
type Reporter struct {
	Name      string
	Email     string
	AvatarURL *string
}

// Issue is the aggregate for citizen-submitted civic reports.
type Issue struct {
	ID          string
	Category    IssueCategory
	Description string
	Latitude    float64
	Longitude   float64
	PhotoKey    *string
	AudioKey    *string
	VideoKey    *string
	AIAnalysis  *string
	Status      IssueStatus
	Reporter    Reporter
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Department groups categories by the municipal unit that handles them.
type Department string

const (
	DepartmentRoads       Department = "roads"
	DepartmentElectrical  Department = "electrical"
	DepartmentSanitation  Department = "sanitation"
	DepartmentWaterSupply Department = "water_supply"
	DepartmentGeneral     Department = "general"
)

var departmentByCategory = map[IssueCategory]Department{
	CategoryPothole:     DepartmentRoads,
	CategoryStreetlight: DepartmentElectrical,
	CategoryGarbage:     DepartmentSanitation,
	CategoryWater:       DepartmentWaterSupply,
	CategoryOthers:      DepartmentGeneral,
}

// DepartmentFor returns the department responsible for a category.
func DepartmentFor(c IssueCategory) Department {
	return departmentByCategory[c]
}

// CategoriesForDepartment returns the categories routed to a department,
// in declaration order. Empty for an unknown department.
func CategoriesForDepartment(d Department) []IssueCategory {
	var result []IssueCategory
	for _, c := range Categories() {
		if departmentByCategory[c] == d {
			result = append(result, c)
		}
	}
	return result
}
