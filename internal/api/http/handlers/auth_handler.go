package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/api/dto"
	"github.com/spec-kit/lms-console/internal/domain"
	"github.com/spec-kit/lms-console/internal/gate"
	"github.com/spec-kit/lms-console/internal/notify"
	"github.com/spec-kit/lms-console/internal/session"
	"github.com/spec-kit/lms-console/internal/upstream"
)

// AuthHandler exposes the login, logout and password recovery flows.
type AuthHandler struct {
	sessions *session.Store
	gateway  *upstream.Gateway
	gate     *gate.Gate
	bus      *notify.Bus
}

// NewAuthHandler constructs handler.
func NewAuthHandler(sessions *session.Store, gateway *upstream.Gateway, g *gate.Gate, bus *notify.Bus) *AuthHandler {
	return &AuthHandler{sessions: sessions, gateway: gateway, gate: g, bus: bus}
}

// Login handles POST /login. The upstream failure payload is surfaced
// verbatim through the error envelope; a notification is published as well.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	if err := h.sessions.Login(c.UserContext(), req.Email, req.Password); err != nil {
		h.bus.Publish(domain.NotifyError, "login", "login failed", -1)
		return err
	}

	user, _ := h.sessions.Current()
	return c.JSON(fiber.Map{
		"data": dto.LoginResponse{
			User:     user,
			Redirect: h.gate.ValidateNext(req.Next, user.Role),
		},
	})
}

// Logout handles POST /logout. Local-only and idempotent.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout()
	return c.JSON(fiber.Map{"data": fiber.Map{"redirect": "/login"}})
}

// ForgotPassword handles POST /forgot-password.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" {
		return fiber.NewError(http.StatusBadRequest, "email required")
	}

	if err := h.gateway.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	h.bus.Publish(domain.NotifyInfo, "password recovery", "recovery email sent", -1)
	return c.JSON(fiber.Map{"data": fiber.Map{"sent": true}})
}

// ResetPassword handles POST /reset-password.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "token and password required")
	}

	if err := h.gateway.ResetPassword(c.UserContext(), req.Token, req.Password); err != nil {
		return err
	}
	h.bus.Publish(domain.NotifySuccess, "password recovery", "password updated", -1)
	return c.JSON(fiber.Map{"data": fiber.Map{"redirect": "/login"}})
}
