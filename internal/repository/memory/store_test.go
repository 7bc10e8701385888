package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/repository"
)

func TestUserRepositoryRejectsDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{Name: "Ana", Email: "ana@x.com"}))
	err := repo.Create(ctx, &domain.User{Name: "Other", Email: "ana@x.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	user, err := repo.GetByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEventRepositoryListsByDateWithOffsetAndLimit(t *testing.T) {
	ctx := context.Background()
	repo := NewEventRepository()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, day := range []int{3, 1, 2} {
		require.NoError(t, repo.Create(ctx, &domain.Event{Title: "day", Date: base.AddDate(0, 0, day)}))
	}

	page, total, err := repo.List(ctx, repository.EventListFilter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, base.AddDate(0, 0, 2), page[0].Date)
	assert.Equal(t, base.AddDate(0, 0, 3), page[1].Date)

	page, total, err = repo.List(ctx, repository.EventListFilter{Limit: 10, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Empty(t, page)
}

func TestRegistrationRepositoryEnforcesPairUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewRegistrationRepository()

	require.NoError(t, repo.Create(ctx, &domain.Registration{EventID: "e1", ParticipantID: "p1"}))
	require.NoError(t, repo.Create(ctx, &domain.Registration{EventID: "e2", ParticipantID: "p1"}))
	require.NoError(t, repo.Create(ctx, &domain.Registration{EventID: "e1", ParticipantID: "p2"}))

	err := repo.Create(ctx, &domain.Registration{EventID: "e1", ParticipantID: "p1"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	mine, err := repo.ListByParticipant(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	attendees, err := repo.ListByEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, attendees, 2)

	_, err = repo.GetByEventAndParticipant(ctx, "e2", "p2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
