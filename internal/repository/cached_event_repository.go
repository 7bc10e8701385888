package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/domain"
)

const eventCachePrefix = "event:"

// cachedEventRepository keeps single-event lookups in Redis. Events have no
// edit path, so entries only expire.
type cachedEventRepository struct {
	EventRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedEventRepository wraps next with a Redis read-through cache. A nil
// client or non-positive ttl returns next unchanged.
func NewCachedEventRepository(next EventRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) EventRepository {
	if client == nil || ttl <= 0 {
		return next
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &cachedEventRepository{EventRepository: next, client: client, ttl: ttl, logger: logger}
}

func (r *cachedEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	key := eventCachePrefix + id

	raw, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var event domain.Event
		if jsonErr := json.Unmarshal(raw, &event); jsonErr == nil {
			return &event, nil
		}
		r.logger.Warn("discarding unreadable cached event", zap.String("event_id", id))
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("event cache read failed", zap.String("event_id", id), zap.Error(err))
	}

	event, err := r.EventRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, jsonErr := json.Marshal(event); jsonErr == nil {
		if setErr := r.client.Set(ctx, key, payload, r.ttl).Err(); setErr != nil {
			r.logger.Debug("event cache write failed", zap.String("event_id", id), zap.Error(setErr))
		}
	}
	return event, nil
}
