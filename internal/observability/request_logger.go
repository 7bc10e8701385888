package observability

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/ids"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

const (
	// RequestIDHeader carries the correlation id in requests and responses.
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	subjectKey   = "subject_id"
)

// RequestID assigns every request a ULID, honouring a caller-supplied header.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(RequestIDHeader)
		if rid == "" || len(rid) > 64 {
			rid = ids.NewRequestID()
		}
		c.Locals(requestIDKey, rid)
		c.Set(RequestIDHeader, rid)
		return c.Next()
	}
}

// RequestIDFromCtx returns the request id assigned by RequestID.
func RequestIDFromCtx(c *fiber.Ctx) string {
	rid, _ := c.Locals(requestIDKey).(string)
	return rid
}

// SetSubject records the resolved caller so request logs can name it.
func SetSubject(c *fiber.Ctx, subjectID string) {
	c.Locals(subjectKey, subjectID)
}

// RequestLogger logs one line per request and feeds request metrics.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			// the error handler runs outside this middleware and has not written yet
			status = StatusFor(err)
		}
		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		metrics.RecordRequest(path, c.Method(), status, latency)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("request_id", RequestIDFromCtx(c)),
		}
		if subject, ok := c.Locals(subjectKey).(string); ok && subject != "" {
			fields = append(fields, zap.String("subject_id", subject))
		}
		logger.Info("request", fields...)
		return err
	}
}

// StatusFor maps a handler error to the HTTP status it will be rendered with.
func StatusFor(err error) int {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}
	return apperrors.ToDomainError(err).HTTPStatus
}
