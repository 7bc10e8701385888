package dto

import (
	"time"

	"github.com/spec-kit/event-service/internal/domain"
	"github.com/spec-kit/event-service/internal/service"
)

// RegistrationResponse is the public view of a registration. Event is set on
// the caller's own listing and Participant on attendee lists.
type RegistrationResponse struct {
	ID            string                    `json:"id"`
	EventID       string                    `json:"event_id"`
	ParticipantID string                    `json:"participant_id"`
	Status        domain.RegistrationStatus `json:"status"`
	CreatedAt     time.Time                 `json:"created_at"`
	UpdatedAt     time.Time                 `json:"updated_at"`
	Event         *EventSummary             `json:"event,omitempty"`
	Participant   *ParticipantSummary       `json:"participant,omitempty"`
}

// RegistrationListResponse wraps registration listings.
type RegistrationListResponse struct {
	Data []RegistrationResponse `json:"data"`
}

func NewRegistrationResponse(r *domain.Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:            r.ID,
		EventID:       r.EventID,
		ParticipantID: r.ParticipantID,
		Status:        r.Status,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func NewMyRegistrationsResponse(items []service.RegistrationWithEvent) RegistrationListResponse {
	data := make([]RegistrationResponse, 0, len(items))
	for i := range items {
		resp := NewRegistrationResponse(&items[i].Registration)
		resp.Event = newEventSummary(items[i].Event)
		data = append(data, resp)
	}
	return RegistrationListResponse{Data: data}
}

func NewAttendeesResponse(items []service.Attendee) RegistrationListResponse {
	data := make([]RegistrationResponse, 0, len(items))
	for i := range items {
		resp := NewRegistrationResponse(&items[i].Registration)
		resp.Participant = newParticipantSummary(items[i].Participant)
		data = append(data, resp)
	}
	return RegistrationListResponse{Data: data}
}
