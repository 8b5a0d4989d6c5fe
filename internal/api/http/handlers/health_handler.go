package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/session"
	"github.com/spec-kit/lms-console/internal/upstream"
)

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	gateway     *upstream.Gateway
	vault       session.Vault
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, gateway *upstream.Gateway, vault session.Vault) *HealthHandler {
	return &HealthHandler{serviceName: serviceName, version: version, gateway: gateway, vault: vault}
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports readiness: the session vault must be readable (empty is
// fine) and the upstream base resolved. The upstream itself is not probed
// here to keep the endpoint cheap.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	depStatus := fiber.Map{"upstream": h.gateway.Base()}
	ready := true

	if _, err := h.vault.Read(); err != nil && err != session.ErrEmptyVault {
		depStatus["session_vault"] = err.Error()
		ready = false
	} else {
		depStatus["session_vault"] = "ok"
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}
