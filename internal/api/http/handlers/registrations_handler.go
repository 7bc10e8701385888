package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-service/internal/api/dto"
	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/service"
)

// RegistrationsHandler serves registration and attendee endpoints.
type RegistrationsHandler struct {
	registrations *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrationService *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{registrations: registrationService}
}

// Register handles POST /events/:id/registrations.
func (h *RegistrationsHandler) Register(c *fiber.Ctx) error {
	registration, err := h.registrations.Register(c.UserContext(), auth.IdentityFromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRegistrationResponse(registration))
}

// ListMine handles GET /me/registrations.
func (h *RegistrationsHandler) ListMine(c *fiber.Ctx) error {
	items, err := h.registrations.ListMine(c.UserContext(), auth.IdentityFromCtx(c))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewMyRegistrationsResponse(items))
}

// ListAttendees handles GET /events/:id/attendees.
func (h *RegistrationsHandler) ListAttendees(c *fiber.Ctx) error {
	items, err := h.registrations.ListAttendees(c.UserContext(), auth.IdentityFromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttendeesResponse(items))
}
