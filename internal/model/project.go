package model

import "time"

// ProjectStatus enumerates the lifecycle states of a project. No
// state machine is enforced between them; transitions are gated by
// permission only.
type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "planned"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectCancelled ProjectStatus = "cancelled"
)

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch ProjectStatus(s) {
	case ProjectPlanned, ProjectActive, ProjectCompleted, ProjectCancelled:
		return true
	}
	return false
}

// Project mirrors the `projects` table. Every project is owned by
// exactly one manager (ManagerID); members are kept in the
// project_members table and cascade-deleted with the project.
type Project struct {
	ID          uint64        `json:"id"`
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Status      ProjectStatus `json:"status"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	ManagerID   uint64        `json:"managerId"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}
