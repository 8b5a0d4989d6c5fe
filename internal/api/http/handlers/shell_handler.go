package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/api/dto"
	"github.com/spec-kit/lms-console/internal/gate"
	"github.com/spec-kit/lms-console/internal/shell"
	apperrors "github.com/spec-kit/lms-console/pkg/util"
)

// ShellHandler renders the per-role chrome.
type ShellHandler struct {
	shell *shell.Shell
}

// NewShellHandler constructs handler.
func NewShellHandler(s *shell.Shell) *ShellHandler {
	return &ShellHandler{shell: s}
}

// Home handles GET /<role>: identity plus navigation with badges. The badge
// fetch is best-effort and tied to the request context, so a torn-down
// request cancels it.
func (h *ShellHandler) Home(c *fiber.Ctx) error {
	user, ok := gate.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("no session")
	}

	return c.JSON(fiber.Map{
		"data": dto.ShellResponse{
			User: user,
			Nav:  h.shell.Nav(c.UserContext(), user.Role),
		},
	})
}
