package domain

import "strings"

// Role determines which route prefix and chrome a session may access.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleInstructor Role = "INSTRUCTOR"
	RoleStudent    Role = "STUDENT"
)

// NormalizeRole maps a free-form server-provided role name to a known tag.
// Matching is case-insensitive and exact. Unrecognized names currently resolve
// to ADMIN; product has not confirmed this default (see DESIGN.md).
func NormalizeRole(name string) Role {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case string(RoleAdmin):
		return RoleAdmin
	case string(RoleInstructor):
		return RoleInstructor
	case string(RoleStudent):
		return RoleStudent
	default:
		return RoleAdmin
	}
}

// Landing returns the home path for the role.
func (r Role) Landing() string {
	switch r {
	case RoleInstructor:
		return "/instructor"
	case RoleStudent:
		return "/student"
	default:
		return "/admin"
	}
}

// User is the resolved identity behind a session.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        Role   `json:"role"`
}
