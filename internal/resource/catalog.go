package resource

import (
	"go.uber.org/zap"

	"github.com/spec-kit/lms-console/internal/domain"
)

// Catalog holds one controller per resource screen.
type Catalog struct {
	controllers map[string]*Controller
}

// Resources lists the screens available to each role.
var Resources = map[domain.Role][]string{
	domain.RoleAdmin:      {"courses", "students", "instructors", "batches", "assignments", "announcements"},
	domain.RoleInstructor: {"courses", "assignments", "announcements"},
	domain.RoleStudent:    {"courses", "assignments", "announcements"},
}

// NewCatalog wires the controller set against the upstream API. The per-
// resource endpoint sets are configuration, not code: the workflow itself
// lives once in Controller.
func NewCatalog(api API, notify Notifier, logger *zap.Logger) *Catalog {
	userItem := func(verb string) func(id string) string {
		return func(id string) string { return "/api/user/" + verb + "/" + id }
	}

	descriptors := []Descriptor{
		{Name: "courses", ListPath: "/api/courses"},
		{
			Name:       "students",
			ListPath:   "/api/user/users?role=student",
			CreatePath: "/api/user/add-user",
			UpdatePath: userItem("update-user"),
			DeletePath: userItem("delete-user"),
		},
		{
			Name:       "instructors",
			ListPath:   "/api/user/users?role=instructor",
			CreatePath: "/api/user/add-user",
			UpdatePath: userItem("update-user"),
			DeletePath: userItem("delete-user"),
		},
		{Name: "batches", ListPath: "/api/batches"},
		{Name: "assignments", ListPath: "/api/assignments"},
		{Name: "announcements", ListPath: "/api/announcements"},
	}

	catalog := &Catalog{controllers: make(map[string]*Controller, len(descriptors))}
	for _, desc := range descriptors {
		catalog.controllers[desc.Name] = NewController(desc, api, notify, logger)
	}
	return catalog
}

// Get returns the controller for a resource name.
func (c *Catalog) Get(name string) (*Controller, bool) {
	ctrl, ok := c.controllers[name]
	return ctrl, ok
}

// Allowed reports whether the resource screen exists for the role.
func Allowed(role domain.Role, name string) bool {
	for _, allowed := range Resources[role] {
		if allowed == name {
			return true
		}
	}
	return false
}
