package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/observability"
	"github.com/spec-kit/event-service/internal/repository"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

// Registration outcomes reported to metrics.
const (
	outcomeConfirmed = "confirmed"
	outcomeConflict  = "conflict"
	outcomeRejected  = "rejected"
	outcomeFailed    = "failed"
)

// RegistrationWithEvent is a caller's registration plus the event it targets.
type RegistrationWithEvent struct {
	Registration domain.Registration
	Event        *domain.Event
}

// Attendee is a registration plus the participant who holds it.
type Attendee struct {
	Registration domain.Registration
	Participant  *domain.User
}

// RegistrationService enforces that a participant holds at most one
// registration per event and guards the attendee list.
type RegistrationService struct {
	events        repository.EventRepository
	registrations repository.RegistrationRepository
	users         repository.UserRepository
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

// RegistrationDependencies encapsulates collaborators for the coordinator.
type RegistrationDependencies struct {
	Events        repository.EventRepository
	Registrations repository.RegistrationRepository
	Users         repository.UserRepository
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	Logger        *zap.Logger
}

// NewRegistrationService builds the service.
func NewRegistrationService(deps RegistrationDependencies) *RegistrationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationService{
		events:        deps.Events,
		registrations: deps.Registrations,
		users:         deps.Users,
		dispatcher:    deps.Dispatcher,
		metrics:       deps.Metrics,
		logger:        logger,
		now:           time.Now,
	}
}

// Register confirms a registration of the caller for eventID. Checks run in a
// fixed order: identity, id format, event existence, duplicate pair.
func (s *RegistrationService) Register(ctx context.Context, identity *domain.Identity, eventID string) (*domain.Registration, error) {
	registration, err := s.register(ctx, identity, eventID)
	s.metrics.RecordRegistration(registrationOutcome(err))
	return registration, err
}

func (s *RegistrationService) register(ctx context.Context, identity *domain.Identity, eventID string) (*domain.Registration, error) {
	if err := auth.Authorize(auth.OpRegisterForEvent, identity, ""); err != nil {
		return nil, err
	}
	event, err := loadEvent(ctx, s.events, eventID)
	if err != nil {
		return nil, err
	}

	participantID := identity.SubjectID
	_, err = s.registrations.GetByEventAndParticipant(ctx, event.ID, participantID)
	switch {
	case err == nil:
		return nil, alreadyRegistered(event.ID)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewInternalError(err)
	}

	now := s.now().UTC()
	registration := &domain.Registration{
		EventID:       event.ID,
		ParticipantID: participantID,
		Status:        domain.RegistrationStatusConfirmed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.registrations.Create(ctx, registration); err != nil {
		// a concurrent request won the race between the check and the insert
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, alreadyRegistered(event.ID)
		}
		if errors.Is(err, repository.ErrReferenceMissing) {
			return nil, unknownSubject()
		}
		return nil, apperrors.NewInternalError(err)
	}

	publish(ctx, s.dispatcher, s.logger, events.EventRegistrationConfirmed, participantID, events.RegistrationConfirmedPayload{
		RegistrationID: registration.ID,
		EventID:        registration.EventID,
		ParticipantID:  registration.ParticipantID,
	})
	return registration, nil
}

// ListMine returns the caller's registrations with their events.
func (s *RegistrationService) ListMine(ctx context.Context, identity *domain.Identity) ([]RegistrationWithEvent, error) {
	if err := auth.Authorize(auth.OpListMyRegistrations, identity, ""); err != nil {
		return nil, err
	}

	registrations, err := s.registrations.ListByParticipant(ctx, identity.SubjectID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := make([]RegistrationWithEvent, 0, len(registrations))
	for _, registration := range registrations {
		event, err := s.events.GetByID(ctx, registration.EventID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewInternalError(err)
		}
		result = append(result, RegistrationWithEvent{Registration: registration, Event: event})
	}
	return result, nil
}

// ListAttendees returns the registrations of an event to its organizer. The
// event must exist before ownership is checked.
func (s *RegistrationService) ListAttendees(ctx context.Context, identity *domain.Identity, eventID string) ([]Attendee, error) {
	if identity == nil || identity.SubjectID == "" {
		return nil, auth.Authorize(auth.OpListAttendees, nil, "")
	}
	event, err := loadEvent(ctx, s.events, eventID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(auth.OpListAttendees, identity, event.OrganizerID); err != nil {
		return nil, err
	}

	registrations, err := s.registrations.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	result := make([]Attendee, 0, len(registrations))
	for _, registration := range registrations {
		participant, err := lookupUser(ctx, s.users, registration.ParticipantID)
		if err != nil {
			return nil, err
		}
		result = append(result, Attendee{Registration: registration, Participant: participant})
	}
	return result, nil
}

func alreadyRegistered(eventID string) error {
	return apperrors.NewConflict("already registered for this event", map[string]any{"event_id": eventID})
}

func registrationOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeConfirmed
	case apperrors.HasCode(err, apperrors.CodeConflict):
		return outcomeConflict
	case apperrors.HasCode(err, apperrors.CodeInternal):
		return outcomeFailed
	default:
		return outcomeRejected
	}
}
