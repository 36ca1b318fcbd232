package model

import "time"

// MemberRole is the role a user holds inside a single project. It is
// independent of the account-level Role.
type MemberRole string

const (
	MemberViewer      MemberRole = "viewer"
	MemberContributor MemberRole = "contributor"
	MemberMaintainer  MemberRole = "maintainer"
)

// ValidMemberRole reports whether s is a known project member role.
func ValidMemberRole(s string) bool {
	switch MemberRole(s) {
	case MemberViewer, MemberContributor, MemberMaintainer:
		return true
	}
	return false
}

// ProjectMember mirrors the `project_members` table: one row per
// (project, user) pair after a sync. Rows are owned by the project
// and cascade-deleted with it.
type ProjectMember struct {
	ID        uint64     `json:"id"`
	ProjectID uint64     `json:"projectId"`
	UserID    uint64     `json:"userId"`
	Role      MemberRole `json:"role"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
