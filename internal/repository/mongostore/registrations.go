package mongostore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/repository"
)

type registrationRepository struct {
	coll *mongo.Collection
}

// NewRegistrationRepository returns a document-store backed RegistrationRepository.
// Uniqueness of (event_id, participant_id) comes from the index built by EnsureIndexes.
func NewRegistrationRepository(db *mongo.Database) repository.RegistrationRepository {
	return &registrationRepository{coll: db.Collection(registrationsCollection)}
}

func (r *registrationRepository) Create(ctx context.Context, registration *domain.Registration) error {
	if registration.ID == "" {
		registration.ID = uuid.NewString()
	}
	_, err := r.coll.InsertOne(ctx, registration)
	return mapMongoError(err)
}

func (r *registrationRepository) GetByEventAndParticipant(ctx context.Context, eventID, participantID string) (*domain.Registration, error) {
	var registration domain.Registration
	filter := bson.M{"event_id": eventID, "participant_id": participantID}
	if err := r.coll.FindOne(ctx, filter).Decode(&registration); err != nil {
		return nil, mapMongoError(err)
	}
	return &registration, nil
}

func (r *registrationRepository) ListByParticipant(ctx context.Context, participantID string) ([]domain.Registration, error) {
	return r.list(ctx, bson.M{"participant_id": participantID})
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Registration, error) {
	return r.list(ctx, bson.M{"event_id": eventID})
}

func (r *registrationRepository) list(ctx context.Context, filter bson.M) ([]domain.Registration, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	result := []domain.Registration{}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("decode registrations: %w", err)
	}
	return result, nil
}
