package auth

import (
	"github.com/spec-kit/event-service/internal/domain"
	apperrors "github.com/spec-kit/event-service/pkg/util/errorutil"
)

// Operation names an externally reachable action.
type Operation string

const (
	OpListEvents          Operation = "events.list"
	OpGetEvent            Operation = "events.get"
	OpCreateEvent         Operation = "events.create"
	OpRegisterForEvent    Operation = "registrations.create"
	OpListMyRegistrations Operation = "registrations.list_mine"
	OpListAttendees       Operation = "events.attendees"
)

// Requirement is what an operation demands of its caller.
type Requirement uint8

const (
	RequireNothing Requirement = iota
	RequireIdentity
	RequireOwner
)

var policies = map[Operation]Requirement{
	OpListEvents:          RequireNothing,
	OpGetEvent:            RequireNothing,
	OpCreateEvent:         RequireIdentity,
	OpRegisterForEvent:    RequireIdentity,
	OpListMyRegistrations: RequireIdentity,
	OpListAttendees:       RequireOwner,
}

var unauthenticatedMessages = map[Operation]string{
	OpCreateEvent:         "authentication required to create an event",
	OpRegisterForEvent:    "authentication required to register for events",
	OpListMyRegistrations: "authentication required to view your registrations",
	OpListAttendees:       "authentication required",
}

// RequirementFor returns the declared requirement of op.
func RequirementFor(op Operation) (Requirement, bool) {
	req, ok := policies[op]
	return req, ok
}

// Authorize checks identity against the requirement of op. ownerID is the
// organizer of the target resource and only matters for RequireOwner; callers
// must have confirmed the resource exists first. Unknown operations are denied.
func Authorize(op Operation, identity *domain.Identity, ownerID string) error {
	req, ok := policies[op]
	if !ok {
		return apperrors.NewForbidden("operation not permitted")
	}

	switch req {
	case RequireNothing:
		return nil
	case RequireIdentity:
		if identity == nil || identity.SubjectID == "" {
			return apperrors.NewUnauthenticated(unauthenticatedMessages[op])
		}
		return nil
	case RequireOwner:
		if identity == nil || identity.SubjectID == "" {
			return apperrors.NewUnauthenticated(unauthenticatedMessages[op])
		}
		if ownerID == "" || identity.SubjectID != ownerID {
			return apperrors.NewForbidden("you do not have permission to view the attendees of this event")
		}
		return nil
	default:
		return apperrors.NewForbidden("operation not permitted")
	}
}
