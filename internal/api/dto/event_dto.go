package dto

import (
	"time"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/service"
)

// CreateEventRequest payload for publishing an event. Date is RFC 3339.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
}

// EventResponse is the public view of an event.
type EventResponse struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Date        time.Time    `json:"date"`
	Location    string       `json:"location"`
	Price       float64      `json:"price"`
	OrganizerID string       `json:"organizer_id"`
	Organizer   *UserSummary `json:"organizer,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// EventListResponse wraps a page of events.
type EventListResponse struct {
	Data       []EventResponse `json:"data"`
	TotalCount int             `json:"total_count"`
}

// EventSummary is embedded in registration listings.
type EventSummary struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Price    float64   `json:"price"`
}

func (r CreateEventRequest) ToInput() service.CreateEventInput {
	return service.CreateEventInput{
		Title:       r.Title,
		Description: r.Description,
		Date:        r.Date,
		Location:    r.Location,
		Price:       r.Price,
	}
}

func NewEventResponse(item service.EventWithOrganizer) EventResponse {
	e := item.Event
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Price:       e.Price,
		OrganizerID: e.OrganizerID,
		Organizer:   newUserSummary(item.Organizer),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func NewEventListResponse(page *service.EventPage) EventListResponse {
	data := make([]EventResponse, 0, len(page.Events))
	for _, item := range page.Events {
		data = append(data, NewEventResponse(item))
	}
	return EventListResponse{Data: data, TotalCount: page.TotalCount}
}

func newEventSummary(e *domain.Event) *EventSummary {
	if e == nil {
		return nil
	}
	return &EventSummary{ID: e.ID, Title: e.Title, Date: e.Date, Location: e.Location, Price: e.Price}
}
