package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/domain"
	"github.com/spec-kit/lms-console/internal/notify"
	"github.com/spec-kit/lms-console/internal/upstream"
)

// SettingsHandler serves the single-document settings screen.
type SettingsHandler struct {
	gateway *upstream.Gateway
	bus     *notify.Bus
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(gateway *upstream.Gateway, bus *notify.Bus) *SettingsHandler {
	return &SettingsHandler{gateway: gateway, bus: bus}
}

// Get handles GET /admin/settings.
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	doc, err := h.gateway.GetSettings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": doc})
}

// Update handles PUT /admin/settings, re-fetching the document afterwards so
// the response reflects server state.
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	doc := map[string]any{}
	if err := c.BodyParser(&doc); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.gateway.UpdateSettings(c.UserContext(), doc); err != nil {
		h.bus.Publish(domain.NotifyError, "settings", "settings update failed", -1)
		return err
	}
	h.bus.Publish(domain.NotifySuccess, "settings", "settings updated", -1)

	updated, err := h.gateway.GetSettings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": updated})
}
