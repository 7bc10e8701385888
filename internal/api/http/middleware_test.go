package http

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/observability"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

func TestErrorHandlingRecoversPanics(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), nil, 0)
	app.Get("/boom", func(*fiber.Ctx) error { panic("kaboom") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestToDomainErrorMapsFiberErrors(t *testing.T) {
	assert.Equal(t, apperrors.CodeNotFound, toDomainError(fiber.ErrNotFound).Code)
	assert.Equal(t, apperrors.CodeBadInput, toDomainError(fiber.ErrUnprocessableEntity).Code)
	assert.Equal(t, apperrors.CodeRateLimited, toDomainError(fiber.ErrTooManyRequests).Code)

	internal := toDomainError(fiber.ErrServiceUnavailable)
	assert.Equal(t, apperrors.CodeInternal, internal.Code)
	assert.Equal(t, "internal server error", internal.Message)

	conflict := toDomainError(apperrors.NewConflict("dup", nil))
	assert.Equal(t, fiber.StatusConflict, conflict.HTTPStatus)
}

func TestRateLimiterBucketsPerKey(t *testing.T) {
	limiter := newRateLimiter(1, 1)
	assert.True(t, limiter.allow("a"))
	assert.False(t, limiter.allow("a"))
	assert.True(t, limiter.allow("b"))
}
