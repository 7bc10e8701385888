package domain

import "time"

// RegistrationStatus enumerates registration states. Confirmed is terminal.
type RegistrationStatus string

const (
	RegistrationStatusConfirmed RegistrationStatus = "CONFIRMED"
)

// Registration links one participant to one event.
type Registration struct {
	ID            string             `json:"id" bson:"_id"`
	EventID       string             `json:"event_id" bson:"event_id"`
	ParticipantID string             `json:"participant_id" bson:"participant_id"`
	Status        RegistrationStatus `json:"status" bson:"status"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}
