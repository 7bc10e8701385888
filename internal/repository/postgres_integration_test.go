//go:build integration

package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/persistence"
	"github.com/spec-kit/event-service/internal/repository"
)

func newPostgresPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("events"),
		postgres.WithUsername("events"),
		postgres.WithPassword("events"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, persistence.MigrateUp(dsn, zap.NewNop()))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestPostgresRepositories(t *testing.T) {
	pool := newPostgresPool(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	users := repository.NewUserRepository(pool)
	eventsRepo := repository.NewEventRepository(pool)
	registrations := repository.NewRegistrationRepository(pool)

	organizer := &domain.User{Name: "Olga", Email: "olga@x.com", PasswordHash: "x", Role: domain.RoleOrganizer, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, organizer))
	participant := &domain.User{Name: "Pia", Email: "pia@x.com", PasswordHash: "x", Role: domain.RoleParticipant, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, users.Create(ctx, participant))

	dup := &domain.User{Name: "Olga 2", Email: "olga@x.com", PasswordHash: "x", Role: domain.RoleParticipant, CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, users.Create(ctx, dup), repository.ErrDuplicate)

	event := &domain.Event{OrganizerID: organizer.ID, Title: "Talk", Date: now.Add(48 * time.Hour), Price: 12.5, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, eventsRepo.Create(ctx, event))

	got, err := eventsRepo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Talk", got.Title)
	assert.InDelta(t, 12.5, got.Price, 0.001)

	_, err = eventsRepo.GetByID(ctx, "00000000-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	page, total, err := eventsRepo.List(ctx, repository.EventListFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, page, 1)

	t.Run("concurrent inserts admit one registration per pair", func(t *testing.T) {
		const attempts = 8
		var (
			wg         sync.WaitGroup
			mu         sync.Mutex
			created    int
			duplicates int
		)
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := registrations.Create(ctx, &domain.Registration{
					EventID:       event.ID,
					ParticipantID: participant.ID,
					Status:        domain.RegistrationStatusConfirmed,
					CreatedAt:     now,
					UpdatedAt:     now,
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					created++
				case assert.ErrorIs(t, err, repository.ErrDuplicate):
					duplicates++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		assert.Equal(t, attempts-1, duplicates)

		byEvent, err := registrations.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		assert.Len(t, byEvent, 1)

		mine, err := registrations.ListByParticipant(ctx, participant.ID)
		require.NoError(t, err)
		assert.Len(t, mine, 1)
	})

	t.Run("writes referencing unknown users are rejected", func(t *testing.T) {
		orphan := &domain.Event{OrganizerID: uuid.NewString(), Title: "Orphan", Date: now.Add(time.Hour), CreatedAt: now, UpdatedAt: now}
		assert.ErrorIs(t, eventsRepo.Create(ctx, orphan), repository.ErrReferenceMissing)

		err := registrations.Create(ctx, &domain.Registration{
			EventID:       event.ID,
			ParticipantID: uuid.NewString(),
			Status:        domain.RegistrationStatusConfirmed,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		assert.ErrorIs(t, err, repository.ErrReferenceMissing)
	})
}
