package audit

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
)

// Action values recorded in the family access log.
const (
	ActionInviteSent         = "invite_sent"
	ActionInvitationAccepted = "invitation_accepted"
	ActionInvitationDeclined = "invitation_declined"
	ActionAccessUpdated      = "access_updated"
	ActionAccessRevoked      = "access_revoked"
	ActionProfileView        = "profile_view"
	ActionEmergencyRequested = "emergency_requested"
)

// SelfActorLabel replaces the actor name when the owner views their own log.
const SelfActorLabel = "You"

// Entry is the write shape for a single log row.
type Entry struct {
	OwnerUserID    uuid.UUID
	ActorUserID    *uuid.UUID
	ActorName      string
	Action         string
	Details        map[string]any
	RelationshipID *uuid.UUID
}

// LogDTO is the transport shape for a log row.
type LogDTO struct {
	ID             uuid.UUID      `json:"id"`
	OwnerUserID    uuid.UUID      `json:"owner_user_id"`
	ActorUserID    *uuid.UUID     `json:"actor_user_id,omitempty"`
	ActorName      string         `json:"actor_name"`
	Action         string         `json:"action"`
	Details        map[string]any `json:"details"`
	RelationshipID *uuid.UUID     `json:"relationship_id,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
}

// FromModel converts a stored row to the external DTO.
func FromModel(m *models.FamilyAccessLog) *LogDTO {
	if m == nil {
		return nil
	}
	details := map[string]any(m.Details)
	if details == nil {
		details = map[string]any{}
	}
	return &LogDTO{
		ID:             m.ID,
		OwnerUserID:    m.OwnerUserID,
		ActorUserID:    m.ActorUserID,
		ActorName:      m.ActorName,
		Action:         m.Action,
		Details:        details,
		RelationshipID: m.RelationshipID,
		CreatedAt:      m.CreatedAt,
	}
}
