package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// FamilyRelationship links an owner with an invited family member and
// captures the granted access level and invitation status. FamilyUserID
// is nil until the invitee registers or accepts; matching before that
// point happens on the lower-cased FamilyEmail.
type FamilyRelationship struct {
	ID               uuid.UUID                `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID      uuid.UUID                `gorm:"column:owner_user_id;type:uuid;not null;index"`
	FamilyUserID     *uuid.UUID               `gorm:"column:family_user_id;type:uuid;index"`
	FamilyEmail      string                   `gorm:"column:family_email;type:text;not null"`
	FamilyName       string                   `gorm:"column:family_name;type:text;not null"`
	RelationshipType enums.RelationshipType   `gorm:"column:relationship_type;type:text;not null"`
	AccessLevel      enums.AccessLevel        `gorm:"column:access_level;type:text;not null;default:'view_only'"`
	Status           enums.RelationshipStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	RespondedAt      *time.Time               `gorm:"column:responded_at"`
	CreatedAt        time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
