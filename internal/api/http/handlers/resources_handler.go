package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/gate"
	"github.com/spec-kit/lms-console/internal/resource"
	apperrors "github.com/spec-kit/lms-console/pkg/util"
)

// ResourcesHandler serves every CRUD screen through the shared controller
// catalog; which screens exist depends on the caller's role.
type ResourcesHandler struct {
	catalog *resource.Catalog
}

// NewResourcesHandler constructs handler.
func NewResourcesHandler(catalog *resource.Catalog) *ResourcesHandler {
	return &ResourcesHandler{catalog: catalog}
}

// List handles GET /<role>/<resource>?q=. The query filters client-side.
func (h *ResourcesHandler) List(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	rows, err := ctrl.List(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"rows":    rows,
		"working": ctrl.Working(),
	}})
}

// Create handles POST /<role>/<resource>.
func (h *ResourcesHandler) Create(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	doc, err := parseDocument(c)
	if err != nil {
		return err
	}
	if err := ctrl.Create(c.UserContext(), doc); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": fiber.Map{"rows": ctrl.Snapshot()}})
}

// Update handles PUT /<role>/<resource>/:id.
func (h *ResourcesHandler) Update(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	doc, err := parseDocument(c)
	if err != nil {
		return err
	}
	if err := ctrl.Update(c.UserContext(), c.Params("id"), doc); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"rows": ctrl.Snapshot()}})
}

// Delete handles DELETE /<role>/<resource>/:id.
func (h *ResourcesHandler) Delete(c *fiber.Ctx) error {
	ctrl, err := h.controller(c)
	if err != nil {
		return err
	}

	if err := ctrl.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"rows": ctrl.Snapshot()}})
}

func (h *ResourcesHandler) controller(c *fiber.Ctx) (*resource.Controller, error) {
	user, ok := gate.UserFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("no session")
	}

	name := c.Params("resource")
	if !resource.Allowed(user.Role, name) {
		return nil, apperrors.NewNotFound(name, nil)
	}
	ctrl, ok := h.catalog.Get(name)
	if !ok {
		return nil, apperrors.NewNotFound(name, nil)
	}
	return ctrl, nil
}

func parseDocument(c *fiber.Ctx) (map[string]any, error) {
	doc := map[string]any{}
	if err := c.BodyParser(&doc); err != nil {
		return nil, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	return doc, nil
}
