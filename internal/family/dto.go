package family

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// InviteRequest is the payload for creating a new family invitation.
type InviteRequest struct {
	Email            string                 `json:"email" validate:"required,email"`
	Name             string                 `json:"name" validate:"required"`
	RelationshipType enums.RelationshipType `json:"relationship_type" validate:"required"`
	AccessLevel      enums.AccessLevel      `json:"access_level,omitempty"`
}

// RespondRequest carries the accept/decline action for a pending invitation.
type RespondRequest struct {
	Action string `json:"action" validate:"required,oneof=accept decline"`
}

// UpdateAccessLevelRequest changes the granted access tier.
type UpdateAccessLevelRequest struct {
	AccessLevel enums.AccessLevel `json:"access_level" validate:"required"`
}

// RelationshipDTO is the transport shape of a relationship row.
type RelationshipDTO struct {
	ID               uuid.UUID                `json:"id"`
	OwnerUserID      uuid.UUID                `json:"owner_user_id"`
	FamilyUserID     *uuid.UUID               `json:"family_user_id,omitempty"`
	FamilyEmail      string                   `json:"family_email"`
	FamilyName       string                   `json:"family_name"`
	RelationshipType enums.RelationshipType   `json:"relationship_type"`
	AccessLevel      enums.AccessLevel        `json:"access_level"`
	Status           enums.RelationshipStatus `json:"status"`
	RespondedAt      *time.Time               `json:"responded_at,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

// AccessibleProfileDTO describes an owner whose records the caller can view.
type AccessibleProfileDTO struct {
	RelationshipID   uuid.UUID              `json:"relationship_id"`
	OwnerUserID      uuid.UUID              `json:"owner_user_id"`
	OwnerName        string                 `json:"owner_name"`
	OwnerEmail       string                 `json:"owner_email"`
	RelationshipType enums.RelationshipType `json:"relationship_type"`
	AccessLevel      enums.AccessLevel      `json:"access_level"`
	AcceptedAt       *time.Time             `json:"accepted_at,omitempty"`
}

// PendingInvitationDTO describes an invitation awaiting the caller's response.
type PendingInvitationDTO struct {
	RelationshipID   uuid.UUID              `json:"relationship_id"`
	OwnerUserID      uuid.UUID              `json:"owner_user_id"`
	OwnerName        string                 `json:"owner_name"`
	OwnerEmail       string                 `json:"owner_email"`
	RelationshipType enums.RelationshipType `json:"relationship_type"`
	AccessLevel      enums.AccessLevel      `json:"access_level"`
	InvitedAt        time.Time              `json:"invited_at"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.FamilyRelationship) *RelationshipDTO {
	if m == nil {
		return nil
	}
	return &RelationshipDTO{
		ID:               m.ID,
		OwnerUserID:      m.OwnerUserID,
		FamilyUserID:     copyUUIDPointer(m.FamilyUserID),
		FamilyEmail:      m.FamilyEmail,
		FamilyName:       m.FamilyName,
		RelationshipType: m.RelationshipType,
		AccessLevel:      m.AccessLevel,
		Status:           m.Status,
		RespondedAt:      m.RespondedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func copyUUIDPointer(src *uuid.UUID) *uuid.UUID {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
