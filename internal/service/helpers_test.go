package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/event-service/internal/auth"
	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	"github.com/spec-kit/event-service/internal/observability"
	"github.com/spec-kit/event-service/internal/repository/memory"
)

type testEnv struct {
	store         *memory.Store
	tokens        *auth.TokenManager
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	auth          *AuthService
	events        *EventService
	registrations *RegistrationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens, err := auth.NewTokenManager("test-secret", time.Hour, zap.NewNop())
	require.NoError(t, err)

	store := memory.NewStore()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	return &testEnv{
		store:      store,
		tokens:     tokens,
		dispatcher: dispatcher,
		metrics:    metrics,
		auth: NewAuthService(AuthDependencies{
			Users:      store.Users,
			Tokens:     tokens,
			Dispatcher: dispatcher,
			BcryptCost: bcrypt.MinCost,
		}),
		events: NewEventService(store.Events, store.Users, dispatcher, nil),
		registrations: NewRegistrationService(RegistrationDependencies{
			Events:        store.Events,
			Registrations: store.Registrations,
			Users:         store.Users,
			Dispatcher:    dispatcher,
			Metrics:       metrics,
		}),
	}
}

// signup creates an account and returns the identity its token resolves to.
func (e *testEnv) signup(t *testing.T, name, email string) *domain.Identity {
	t.Helper()
	result, err := e.auth.Signup(context.Background(), SignupInput{Name: name, Email: email, Password: "secret1"})
	require.NoError(t, err)
	identity, ok := e.tokens.Verify(result.Token)
	require.True(t, ok)
	return &identity
}

func (e *testEnv) createEvent(t *testing.T, organizer *domain.Identity, title string) *domain.Event {
	t.Helper()
	created, err := e.events.Create(context.Background(), organizer, CreateEventInput{
		Title: title,
		Date:  time.Date(2030, 5, 1, 18, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return created.Event
}
