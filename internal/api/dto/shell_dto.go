package dto

import (
	"github.com/spec-kit/lms-console/internal/domain"
	"github.com/spec-kit/lms-console/internal/shell"
)

// ShellResponse is the per-role chrome: identity plus navigation with
// best-effort badges.
type ShellResponse struct {
	User domain.User     `json:"user"`
	Nav  []shell.NavItem `json:"nav"`
}
