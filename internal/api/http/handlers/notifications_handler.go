package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/notify"
)

// NotificationsHandler exposes the on-screen notification stack.
type NotificationsHandler struct {
	bus *notify.Bus
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(bus *notify.Bus) *NotificationsHandler {
	return &NotificationsHandler{bus: bus}
}

// Stack handles GET /notifications: the visible stack in publish order.
func (h *NotificationsHandler) Stack(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": fiber.Map{"notifications": h.bus.Stack()}})
}

// Dismiss handles DELETE /notifications/:id. Dismissing an unknown or
// already-expired id is a no-op.
func (h *NotificationsHandler) Dismiss(c *fiber.Ctx) error {
	h.bus.Dismiss(c.Params("id"))
	return c.SendStatus(fiber.StatusNoContent)
}
