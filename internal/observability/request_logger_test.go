package observability

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

func TestRequestLoggerRecordsErrorStatusAndRequestID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	app := fiber.New()
	app.Use(RequestID())
	app.Use(RequestLogger(zap.New(core), NewMetrics()))
	app.Get("/events/:id", func(c *fiber.Ctx) error {
		SetSubject(c, "user-1")
		return apperrors.NewNotFound("event", nil)
	})

	req := httptest.NewRequest("GET", "/events/abc", nil)
	req.Header.Set(RequestIDHeader, "rid-123")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "rid-123", resp.Header.Get(RequestIDHeader))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(404), fields["status"])
	assert.Equal(t, "rid-123", fields["request_id"])
	assert.Equal(t, "user-1", fields["subject_id"])
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestIDFromCtx(c)) })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(RequestIDHeader), 26)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, 429, StatusFor(fiber.NewError(429, "slow down")))
	assert.Equal(t, 409, StatusFor(apperrors.NewConflict("dup", nil)))
	assert.Equal(t, 500, StatusFor(assert.AnError))
}
