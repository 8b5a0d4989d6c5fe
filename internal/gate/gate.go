package gate

import (
	"net/url"
	"strings"

	"github.com/spec-kit/lms-console/internal/domain"
)

// State enumerates the gate's per-navigation resolution states. UNRESOLVED
// collapses at startup because session hydration completes before the
// listener starts, so Evaluate only ever observes the resolved states.
type State string

const (
	StateAnonymous   State = "ANONYMOUS"
	StateAuthorized  State = "AUTHORIZED"
	StateRedirecting State = "REDIRECTING"
)

// Rule maps a protected URL prefix to the role set allowed through it.
type Rule struct {
	Prefix  string
	Allowed map[domain.Role]struct{}
}

// SessionSource is the slice of the session store the gate consults.
type SessionSource interface {
	Current() (domain.User, bool)
}

// Decision is the outcome of evaluating one navigation.
type Decision struct {
	State      State
	Allow      bool
	RedirectTo string
}

// Gate decides, per navigation, whether the current session may view a
// requested area, and where to send it otherwise.
type Gate struct {
	sessions SessionSource
	rules    []Rule
}

// New builds a gate over the console's route table: one rule per role prefix.
func New(sessions SessionSource) *Gate {
	return &Gate{
		sessions: sessions,
		rules: []Rule{
			{Prefix: "/admin", Allowed: roleSet(domain.RoleAdmin)},
			{Prefix: "/instructor", Allowed: roleSet(domain.RoleInstructor)},
			{Prefix: "/student", Allowed: roleSet(domain.RoleStudent)},
		},
	}
}

// Evaluate resolves a navigation to the given path. Anonymous sessions are
// sent to login with the origin remembered; authorized sessions outside
// their prefix are sent to their own landing, never to a forbidden page.
func (g *Gate) Evaluate(path string) Decision {
	rule, protected := g.match(path)
	if !protected {
		return Decision{State: StateAuthorized, Allow: true}
	}

	user, ok := g.sessions.Current()
	if !ok {
		return Decision{
			State:      StateAnonymous,
			RedirectTo: "/login?next=" + url.QueryEscape(path),
		}
	}

	if _, allowed := rule.Allowed[user.Role]; !allowed {
		return Decision{
			State:      StateRedirecting,
			RedirectTo: user.Role.Landing(),
		}
	}

	return Decision{State: StateAuthorized, Allow: true}
}

// ValidateNext checks a remembered origin from the login flow. Anything that
// is not a protected console path falls back to the role's landing.
func (g *Gate) ValidateNext(next string, role domain.Role) string {
	if strings.HasPrefix(next, "/") && !strings.HasPrefix(next, "//") {
		if _, protected := g.match(next); protected {
			return next
		}
	}
	return role.Landing()
}

func (g *Gate) match(path string) (Rule, bool) {
	for _, rule := range g.rules {
		if path == rule.Prefix || strings.HasPrefix(path, rule.Prefix+"/") {
			return rule, true
		}
	}
	return Rule{}, false
}

func roleSet(roles ...domain.Role) map[domain.Role]struct{} {
	set := make(map[domain.Role]struct{}, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}
