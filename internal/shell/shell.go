package shell

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lms-console/internal/domain"
)

// NavItem is one entry in a role's navigation list. Badge carries a
// best-effort count; zero when the summary endpoint is unavailable.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Badge int    `json:"badge,omitempty"`
}

// SummarySource is the slice of the upstream gateway the shell needs.
type SummarySource interface {
	AdminDashboard(ctx context.Context) (map[string]any, error)
}

// Shell produces per-role chrome: the navigation list plus summary badges.
type Shell struct {
	summaries SummarySource
	logger    *zap.Logger
}

// New builds the shell.
func New(summaries SummarySource, logger *zap.Logger) *Shell {
	return &Shell{summaries: summaries, logger: logger}
}

// Nav returns the navigation list for a role. The summary fetch is
// best-effort: any failure yields zero-valued badges and never blocks the
// navigation itself. ctx is cancelled when the caller tears down.
func (s *Shell) Nav(ctx context.Context, role domain.Role) []NavItem {
	items := navFor(role)
	if role != domain.RoleAdmin {
		return items
	}

	summary, err := s.summaries.AdminDashboard(ctx)
	if err != nil {
		s.logger.Debug("dashboard summary unavailable", zap.Error(err))
		return items
	}

	for i := range items {
		switch items[i].Path {
		case "/admin/students":
			items[i].Badge = pickCount(summary, "totalStudents", "students", "studentCount")
		case "/admin/instructors":
			items[i].Badge = pickCount(summary, "totalInstructors", "instructors", "instructorCount")
		case "/admin/courses":
			items[i].Badge = pickCount(summary, "totalCourses", "courses", "courseCount")
		case "/admin/batches":
			items[i].Badge = pickCount(summary, "totalBatches", "batches", "batchCount")
		}
	}
	return items
}

func navFor(role domain.Role) []NavItem {
	switch role {
	case domain.RoleInstructor:
		return []NavItem{
			{Label: "Dashboard", Path: "/instructor"},
			{Label: "Courses", Path: "/instructor/courses"},
			{Label: "Assignments", Path: "/instructor/assignments"},
			{Label: "Announcements", Path: "/instructor/announcements"},
		}
	case domain.RoleStudent:
		return []NavItem{
			{Label: "Dashboard", Path: "/student"},
			{Label: "Courses", Path: "/student/courses"},
			{Label: "Assignments", Path: "/student/assignments"},
			{Label: "Announcements", Path: "/student/announcements"},
		}
	default:
		return []NavItem{
			{Label: "Dashboard", Path: "/admin"},
			{Label: "Courses", Path: "/admin/courses"},
			{Label: "Students", Path: "/admin/students"},
			{Label: "Instructors", Path: "/admin/instructors"},
			{Label: "Batches", Path: "/admin/batches"},
			{Label: "Assignments", Path: "/admin/assignments"},
			{Label: "Announcements", Path: "/admin/announcements"},
			{Label: "Settings", Path: "/admin/settings"},
		}
	}
}

// pickCount accepts a count from several candidate field names, falling back
// to scanning a nested user list when no dedicated field exists. The
// multi-fallback guessing is a stopgap until the backend exposes a fixed
// summary contract.
func pickCount(summary map[string]any, keys ...string) int {
	for _, key := range keys {
		switch v := summary[key].(type) {
		case float64:
			return int(v)
		case []any:
			return len(v)
		}
	}
	if users, ok := summary["users"].([]any); ok {
		wanted := strings.TrimSuffix(strings.ToLower(keys[len(keys)-1]), "count")
		count := 0
		for _, u := range users {
			doc, ok := u.(map[string]any)
			if !ok {
				continue
			}
			if role, ok := doc["role"].(string); ok && strings.ToLower(role) == wanted {
				count++
			}
		}
		return count
	}
	return 0
}
