// Package memory holds map-backed repositories for tests and local development.
// They honour the same uniqueness rules as the database-backed stores.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/repository"
)

// Store bundles the in-memory repositories.
type Store struct {
	Users         *UserRepository
	Events        *EventRepository
	Registrations *RegistrationRepository
}

// NewStore builds an empty store.
func NewStore() *Store {
	return &Store{
		Users:         NewUserRepository(),
		Events:        NewEventRepository(),
		Registrations: NewRegistrationRepository(),
	}
}

// UserRepository is an in-memory repository.UserRepository.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

// NewUserRepository builds an empty user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{byID: map[string]domain.User{}, byEmail: map[string]string{}}
}

var _ repository.UserRepository = (*UserRepository)(nil)

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, taken := r.byEmail[user.Email]; taken {
		return repository.ErrDuplicate
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	r.byID[user.ID] = *user
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	user := r.byID[id]
	return &user, nil
}

// EventRepository is an in-memory repository.EventRepository.
type EventRepository struct {
	mu     sync.RWMutex
	events map[string]domain.Event
}

// NewEventRepository builds an empty event repository.
func NewEventRepository() *EventRepository {
	return &EventRepository{events: map[string]domain.Event{}}
}

var _ repository.EventRepository = (*EventRepository)(nil)

func (r *EventRepository) Create(_ context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if _, exists := r.events[event.ID]; exists {
		return repository.ErrDuplicate
	}
	r.events[event.ID] = *event
	return nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &event, nil
}

func (r *EventRepository) List(_ context.Context, filter repository.EventListFilter) ([]domain.Event, int, error) {
	r.mu.RLock()
	all := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		all = append(all, event)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Date.Equal(all[j].Date) {
			return all[i].ID < all[j].ID
		}
		return all[i].Date.Before(all[j].Date)
	})

	total := len(all)
	start := min(filter.Offset, total)
	end := total
	if filter.Limit > 0 {
		end = min(start+filter.Limit, total)
	}
	return all[start:end], total, nil
}

// RegistrationRepository is an in-memory repository.RegistrationRepository.
type RegistrationRepository struct {
	mu            sync.RWMutex
	registrations []domain.Registration
	pairs         map[[2]string]struct{}
}

// NewRegistrationRepository builds an empty registration repository.
func NewRegistrationRepository() *RegistrationRepository {
	return &RegistrationRepository{pairs: map[[2]string]struct{}{}}
}

var _ repository.RegistrationRepository = (*RegistrationRepository)(nil)

func (r *RegistrationRepository) Create(_ context.Context, registration *domain.Registration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]string{registration.EventID, registration.ParticipantID}
	if _, exists := r.pairs[key]; exists {
		return repository.ErrDuplicate
	}
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	r.pairs[key] = struct{}{}
	r.registrations = append(r.registrations, *registration)
	return nil
}

func (r *RegistrationRepository) GetByEventAndParticipant(_ context.Context, eventID, participantID string) (*domain.Registration, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, registration := range r.registrations {
		if registration.EventID == eventID && registration.ParticipantID == participantID {
			found := registration
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *RegistrationRepository) ListByParticipant(_ context.Context, participantID string) ([]domain.Registration, error) {
	return r.filter(func(reg domain.Registration) bool { return reg.ParticipantID == participantID }), nil
}

func (r *RegistrationRepository) ListByEvent(_ context.Context, eventID string) ([]domain.Registration, error) {
	return r.filter(func(reg domain.Registration) bool { return reg.EventID == eventID }), nil
}

func (r *RegistrationRepository) filter(keep func(domain.Registration) bool) []domain.Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := []domain.Registration{}
	for _, registration := range r.registrations {
		if keep(registration) {
			result = append(result, registration)
		}
	}
	return result
}
