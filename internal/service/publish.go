package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/events"
)

// publish emits a domain event after the state change has been committed.
// Subscriber failures are logged and never undo the operation.
func publish(ctx context.Context, dispatcher events.Dispatcher, logger *zap.Logger, eventType events.EventType, subjectID string, payload any) {
	if dispatcher == nil {
		return
	}
	err := dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		logger.Warn("event subscriber failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
