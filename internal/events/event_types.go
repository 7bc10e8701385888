package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserSignedUp          EventType = "user.signed_up"
	EventEventCreated          EventType = "event.created"
	EventRegistrationConfirmed EventType = "registration.confirmed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// UserSignedUpPayload payload.
type UserSignedUpPayload struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// EventCreatedPayload payload.
type EventCreatedPayload struct {
	EventID     string    `json:"event_id"`
	OrganizerID string    `json:"organizer_id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
}

// RegistrationConfirmedPayload payload.
type RegistrationConfirmedPayload struct {
	RegistrationID string `json:"registration_id"`
	EventID        string `json:"event_id"`
	ParticipantID  string `json:"participant_id"`
}
