// Package mongostore implements the repository contracts on a MongoDB document store.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/event-service/internal/repository"
)

const (
	usersCollection         = "users"
	eventsCollection        = "events"
	registrationsCollection = "registrations"
)

// EnsureIndexes creates the indexes the repositories rely on, including the
// unique (event_id, participant_id) index that backs the one-registration rule.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_email_key")},
		},
		eventsCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetName("events_date_idx")},
		},
		registrationsCollection: {
			{
				Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "participant_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("registrations_event_participant_key"),
			},
			{Keys: bson.D{{Key: "participant_id", Value: 1}}, Options: options.Index().SetName("registrations_participant_idx")},
		},
	}
	for collection, models := range indexes {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", collection, err)
		}
	}
	return nil
}

func mapMongoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return repository.ErrDuplicate
	default:
		return err
	}
}
