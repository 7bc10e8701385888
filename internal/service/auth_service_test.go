package service

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/events"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

func TestSignupThenLoginScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	signedUp, err := env.auth.Signup(ctx, SignupInput{Name: "Ana", Email: "ana@x.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleParticipant, signedUp.User.Role)
	assert.NotEqual(t, "secret1", signedUp.User.PasswordHash)

	_, err = env.auth.Login(ctx, LoginInput{Email: "ana@x.com", Password: "wrong"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidCredentials))

	loggedIn, err := env.auth.Login(ctx, LoginInput{Email: "ana@x.com", Password: "secret1"})
	require.NoError(t, err)

	first, ok := env.tokens.Verify(signedUp.Token)
	require.True(t, ok)
	second, ok := env.tokens.Verify(loggedIn.Token)
	require.True(t, ok)
	assert.Equal(t, signedUp.User.ID, first.SubjectID)
	assert.Equal(t, first.SubjectID, second.SubjectID)
}

func TestLoginDoesNotRevealUnknownEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.signup(t, "Ana", "ana@x.com")

	_, unknown := env.auth.Login(ctx, LoginInput{Email: "nobody@x.com", Password: "secret1"})
	_, wrong := env.auth.Login(ctx, LoginInput{Email: "ana@x.com", Password: "nope!!"})

	require.Error(t, unknown)
	require.Error(t, wrong)
	assert.Equal(t, apperrors.ToDomainError(unknown).Code, apperrors.ToDomainError(wrong).Code)
	assert.Equal(t, unknown.Error(), wrong.Error())
}

func TestSignupRejectsDuplicateEmailCaseInsensitively(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "Ana", "ana@x.com")

	_, err := env.auth.Signup(context.Background(), SignupInput{Name: "Ana 2", Email: " ANA@x.com ", Password: "secret1"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))
}

func TestSignupValidatesInput(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Signup(context.Background(), SignupInput{Name: "", Email: "not-an-email", Password: "123"})
	require.True(t, apperrors.HasCode(err, apperrors.CodeBadInput))

	details := apperrors.ToDomainError(err).Details
	assert.Contains(t, details, "name")
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
}

func TestSignupPublishesUserSignedUp(t *testing.T) {
	env := newTestEnv(t)

	var seen atomic.Int32
	env.dispatcher.Subscribe(events.EventUserSignedUp, func(_ context.Context, e events.Event) error {
		payload, ok := e.Payload.(events.UserSignedUpPayload)
		if ok && payload.Email == "ana@x.com" {
			seen.Add(1)
		}
		return nil
	})

	env.signup(t, "Ana", "ana@x.com")
	assert.Equal(t, int32(1), seen.Load())
}
