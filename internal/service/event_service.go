package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/repository"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

// Pagination bounds for the public listing.
const (
	DefaultEventLimit = 10
	MaxEventLimit     = 100
)

// ListEventsInput carries offset pagination. Zero limit means the default.
type ListEventsInput struct {
	Limit  int `json:"limit" validate:"gte=0"`
	Offset int `json:"offset" validate:"gte=0"`
}

// CreateEventInput is the payload for publishing an event.
type CreateEventInput struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"max=5000"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location" validate:"max=300"`
	Price       float64   `json:"price" validate:"gte=0"`
}

// EventWithOrganizer pairs an event with its organizer. Organizer is nil when
// the account no longer resolves.
type EventWithOrganizer struct {
	Event     *domain.Event
	Organizer *domain.User
}

// EventPage is one page of the listing plus the total number of events.
type EventPage struct {
	Events     []EventWithOrganizer
	TotalCount int
}

// EventService serves event browsing and publishing.
type EventService struct {
	events     repository.EventRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewEventService builds the service.
func NewEventService(eventRepo repository.EventRepository, userRepo repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *EventService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventService{
		events:     eventRepo,
		users:      userRepo,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// List returns events ordered by date. Anyone may list.
func (s *EventService) List(ctx context.Context, identity *domain.Identity, input ListEventsInput) (*EventPage, error) {
	if err := auth.Authorize(auth.OpListEvents, identity, ""); err != nil {
		return nil, err
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = DefaultEventLimit
	}
	limit = min(limit, MaxEventLimit)

	list, total, err := s.events.List(ctx, repository.EventListFilter{Limit: limit, Offset: input.Offset})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	organizers := map[string]*domain.User{}
	page := &EventPage{Events: make([]EventWithOrganizer, 0, len(list)), TotalCount: total}
	for i := range list {
		event := &list[i]
		organizer, ok := organizers[event.OrganizerID]
		if !ok {
			organizer, err = s.lookupUser(ctx, event.OrganizerID)
			if err != nil {
				return nil, err
			}
			organizers[event.OrganizerID] = organizer
		}
		page.Events = append(page.Events, EventWithOrganizer{Event: event, Organizer: organizer})
	}
	return page, nil
}

// Get returns a single event. Anyone may read.
func (s *EventService) Get(ctx context.Context, identity *domain.Identity, eventID string) (*EventWithOrganizer, error) {
	if err := auth.Authorize(auth.OpGetEvent, identity, ""); err != nil {
		return nil, err
	}
	event, err := loadEvent(ctx, s.events, eventID)
	if err != nil {
		return nil, err
	}
	organizer, err := s.lookupUser(ctx, event.OrganizerID)
	if err != nil {
		return nil, err
	}
	return &EventWithOrganizer{Event: event, Organizer: organizer}, nil
}

// Create publishes an event organized by the caller.
func (s *EventService) Create(ctx context.Context, identity *domain.Identity, input CreateEventInput) (*EventWithOrganizer, error) {
	if err := auth.Authorize(auth.OpCreateEvent, identity, ""); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewBadInput("invalid input", map[string]any{"date": "is required"})
	}

	now := s.now().UTC()
	event := &domain.Event{
		OrganizerID: identity.SubjectID,
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date.UTC(),
		Location:    input.Location,
		Price:       input.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, repository.ErrReferenceMissing) {
			return nil, unknownSubject()
		}
		return nil, apperrors.NewInternalError(err)
	}

	organizer, err := s.lookupUser(ctx, event.OrganizerID)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.dispatcher, s.logger, events.EventEventCreated, identity.SubjectID, events.EventCreatedPayload{
		EventID:     event.ID,
		OrganizerID: event.OrganizerID,
		Title:       event.Title,
		Date:        event.Date,
	})
	return &EventWithOrganizer{Event: event, Organizer: organizer}, nil
}

func (s *EventService) lookupUser(ctx context.Context, id string) (*domain.User, error) {
	return lookupUser(ctx, s.users, id)
}

// loadEvent validates the identifier before touching the store so malformed
// ids are BadInput and well-formed unknown ids are NotFound. Stores key events
// by the canonical lower-case hyphenated form, so the id is normalised first.
func loadEvent(ctx context.Context, repo repository.EventRepository, eventID string) (*domain.Event, error) {
	parsed, err := uuid.Parse(eventID)
	if err != nil {
		return nil, apperrors.NewBadInput("invalid event id", map[string]any{"id": "must be a valid identifier"})
	}
	event, err := repo.GetByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("event", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return event, nil
}

// unknownSubject reports a validly signed identity whose account does not
// exist in a store that enforces user references.
func unknownSubject() error {
	return apperrors.NewUnauthenticated("unknown subject")
}

func lookupUser(ctx context.Context, repo repository.UserRepository, id string) (*domain.User, error) {
	if repo == nil || id == "" {
		return nil, nil
	}
	user, err := repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}
