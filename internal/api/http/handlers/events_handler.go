package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-service/internal/api/dto"
	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/service"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

// EventsHandler serves event browsing and publishing.
type EventsHandler struct {
	events *service.EventService
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService) *EventsHandler {
	return &EventsHandler{events: eventService}
}

// List handles GET /events?limit=&offset=.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset")
	if err != nil {
		return err
	}

	page, err := h.events.List(c.UserContext(), auth.IdentityFromCtx(c), service.ListEventsInput{Limit: limit, Offset: offset})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventListResponse(page))
}

// Get handles GET /events/:id.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	item, err := h.events.Get(c.UserContext(), auth.IdentityFromCtx(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEventResponse(*item))
}

// Create handles POST /events.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	identity := auth.IdentityFromCtx(c)
	// an anonymous caller is told to authenticate before being told the body is wrong
	if err := auth.Authorize(auth.OpCreateEvent, identity, ""); err != nil {
		return err
	}

	var req dto.CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidPayload()
	}

	item, err := h.events.Create(c.UserContext(), identity, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewEventResponse(*item))
}

func queryInt(c *fiber.Ctx, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewBadInput("invalid input", map[string]any{key: "must be an integer"})
	}
	return value, nil
}
