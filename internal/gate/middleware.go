package gate

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/domain"
)

const userKey = "gate_user"

// Middleware enforces the route table for every navigation. Role mismatches
// redirect silently; no forbidden page is ever rendered.
func (g *Gate) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := g.Evaluate(c.Path())
		if !decision.Allow {
			return c.Redirect(decision.RedirectTo, fiber.StatusFound)
		}
		if user, ok := g.sessions.Current(); ok {
			c.Locals(userKey, user)
		}
		return c.Next()
	}
}

// UserFromContext retrieves the authenticated user placed by the middleware.
func UserFromContext(c *fiber.Ctx) (domain.User, bool) {
	val := c.Locals(userKey)
	if val == nil {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}
