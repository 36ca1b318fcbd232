// Package policy holds the static role-to-capability table and the
// route-level role check. Authorization over individual records lives
// in the access package; this package only answers "may this role use
// this class of route at all".
package policy

import "github.com/iliyamo/project-manager/internal/model"

// RolePermissions maps each role to its capability tags. The tags are
// returned verbatim to clients on login/refresh so front ends can
// shape their navigation without a second round trip.
var RolePermissions = map[model.Role][]string{
	model.RoleAdmin:     {"users", "dashboard"},
	model.RoleManager:   {"projects", "tasks", "dashboard"},
	model.RoleDeveloper: {"toggle_tasks", "dashboard"},
}

// PermissionsFor returns the capability tags for a role. Unknown or
// empty roles get an empty (non-nil) slice so the field always
// serializes as a JSON array.
func PermissionsFor(role model.Role) []string {
	if perms, ok := RolePermissions[role]; ok {
		out := make([]string, len(perms))
		copy(out, perms)
		return out
	}
	return []string{}
}

// Check reports whether a principal's role satisfies a route's
// required-role list. The check passes when the role is literally in
// the list, or when the role is admin and the list contains manager:
// admin elevation is one-directional and reaches only the manager
// tier, never developer-only or admin-only gates. An empty required
// list means the route is authenticated-only and always passes. A
// principal without a role fails every non-empty list.
func Check(role model.Role, required []model.Role) bool {
	if len(required) == 0 {
		return true
	}
	if role == "" {
		return false
	}
	for _, r := range required {
		if role == r {
			return true
		}
		if r == model.RoleManager && role == model.RoleAdmin {
			return true
		}
	}
	return false
}
