package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/repository"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

const missingEventID = "0b6f3c1e-5a4d-4c1b-9d38-2f0d5b7c9e11"

func TestRegisterTwiceConflictsScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u1 := env.signup(t, "Olga", "olga@x.com")
	u2 := env.signup(t, "Pia", "pia@x.com")
	event := env.createEvent(t, u1, "Talk")

	registration, err := env.registrations.Register(ctx, u2, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RegistrationStatusConfirmed, registration.Status)
	assert.Equal(t, event.ID, registration.EventID)
	assert.Equal(t, u2.SubjectID, registration.ParticipantID)
	assert.False(t, registration.CreatedAt.IsZero())

	_, err = env.registrations.Register(ctx, u2, event.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	mine, err := env.registrations.ListMine(ctx, u2)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestRegisterCheckOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizer := env.signup(t, "Olga", "olga@x.com")
	participant := env.signup(t, "Pia", "pia@x.com")

	_, err := env.registrations.Register(ctx, nil, "not-a-valid-id")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))

	_, err = env.registrations.Register(ctx, participant, "not-a-valid-id")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeBadInput))

	for _, identity := range []*domain.Identity{organizer, participant} {
		_, err = env.registrations.Register(ctx, identity, missingEventID)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
	}
}

func TestConcurrentRegistrationsAdmitExactlyOne(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizer := env.signup(t, "Olga", "olga@x.com")
	participant := env.signup(t, "Pia", "pia@x.com")
	event := env.createEvent(t, organizer, "Talk")

	const attempts = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.registrations.Register(ctx, participant, event.ID)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case apperrors.HasCode(err, apperrors.CodeConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicts)

	attendees, err := env.registrations.ListAttendees(ctx, organizer, event.ID)
	require.NoError(t, err)
	assert.Len(t, attendees, 1)
}

func TestRegistrationMetrics(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizer := env.signup(t, "Olga", "olga@x.com")
	participant := env.signup(t, "Pia", "pia@x.com")
	event := env.createEvent(t, organizer, "Talk")

	_, _ = env.registrations.Register(ctx, participant, event.ID)
	_, _ = env.registrations.Register(ctx, participant, event.ID)
	_, _ = env.registrations.Register(ctx, nil, event.ID)

	expected := `
# HELP registrations_total Registration attempts by outcome.
# TYPE registrations_total counter
registrations_total{outcome="confirmed"} 1
registrations_total{outcome="conflict"} 1
registrations_total{outcome="rejected"} 1
`
	require.NoError(t, testutil.GatherAndCompare(env.metrics.Registry(), strings.NewReader(expected), "registrations_total"))
}

func TestListAttendeesOwnership(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizer := env.signup(t, "Olga", "olga@x.com")
	p1 := env.signup(t, "Pia", "pia@x.com")
	p2 := env.signup(t, "Quinn", "quinn@x.com")

	event := env.createEvent(t, organizer, "Talk")
	other := env.createEvent(t, organizer, "Workshop")

	_, err := env.registrations.Register(ctx, p1, event.ID)
	require.NoError(t, err)
	_, err = env.registrations.Register(ctx, p2, event.ID)
	require.NoError(t, err)
	_, err = env.registrations.Register(ctx, p1, other.ID)
	require.NoError(t, err)

	attendees, err := env.registrations.ListAttendees(ctx, organizer, event.ID)
	require.NoError(t, err)
	require.Len(t, attendees, 2)
	for _, attendee := range attendees {
		assert.Equal(t, event.ID, attendee.Registration.EventID)
		require.NotNil(t, attendee.Participant)
	}

	for _, nonOrganizer := range []*domain.Identity{p1, p2} {
		_, err = env.registrations.ListAttendees(ctx, nonOrganizer, event.ID)
		assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))
	}

	_, err = env.registrations.ListAttendees(ctx, nil, event.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))

	_, err = env.registrations.ListAttendees(ctx, p1, missingEventID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestListMineIncludesEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	organizer := env.signup(t, "Olga", "olga@x.com")
	participant := env.signup(t, "Pia", "pia@x.com")
	event := env.createEvent(t, organizer, "Talk")

	_, err := env.registrations.ListMine(ctx, nil)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))

	_, err = env.registrations.Register(ctx, participant, event.ID)
	require.NoError(t, err)

	mine, err := env.registrations.ListMine(ctx, participant)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Event)
	assert.Equal(t, "Talk", mine[0].Event.Title)

	none, err := env.registrations.ListMine(ctx, organizer)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListAttendeesTreatsEmptySubjectAsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.registrations.ListAttendees(context.Background(), &domain.Identity{}, "not-a-valid-id")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}

// strictRegistrations rejects writes the way a store with user foreign keys does.
type strictRegistrations struct {
	repository.RegistrationRepository
}

func (strictRegistrations) Create(context.Context, *domain.Registration) error {
	return repository.ErrReferenceMissing
}

func TestRegisterForUnknownSubjectIsUnauthenticated(t *testing.T) {
	env := newTestEnv(t)
	organizer := env.signup(t, "Olga", "olga@x.com")
	event := env.createEvent(t, organizer, "Talk")

	svc := NewRegistrationService(RegistrationDependencies{
		Events:        env.store.Events,
		Registrations: strictRegistrations{env.store.Registrations},
		Users:         env.store.Users,
	})
	_, err := svc.Register(context.Background(), &domain.Identity{SubjectID: uuid.NewString()}, event.ID)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthenticated))
}
