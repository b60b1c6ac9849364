package domain

import "strings"

// Role is one of the closed set of principals the Route Guard understands.
// Values received from the Auth Service keep their original casing; all
// comparisons are case-insensitive.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleEmployer   Role = "employer"
	RoleJobSeeker  Role = "job_seeker"
)

// Roles lists every known role.
var Roles = []Role{RoleSuperAdmin, RoleEmployer, RoleJobSeeker}

// ParseRole maps s onto the closed role set, ignoring case and surrounding
// whitespace. ok is false for anything outside the set.
func ParseRole(s string) (Role, bool) {
	n := Role(strings.ToLower(strings.TrimSpace(s)))
	for _, r := range Roles {
		if n == r {
			return r, true
		}
	}
	return "", false
}

// Normalize returns the canonical lower-case form, or "" when r is not a
// known role.
func (r Role) Normalize() Role {
	n, _ := ParseRole(string(r))
	return n
}

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// Is compares two roles case-insensitively. Unknown roles never match.
func (r Role) Is(other Role) bool {
	a, b := r.Normalize(), other.Normalize()
	return a != "" && a == b
}

// DashboardPath is the landing screen for a role after login.
func DashboardPath(r Role) string {
	switch r.Normalize() {
	case RoleSuperAdmin:
		return "/admin/dashboard"
	case RoleEmployer:
		return "/employer/dashboard"
	case RoleJobSeeker:
		return "/dashboard"
	default:
		return "/"
	}
}
