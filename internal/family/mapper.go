package family

import (
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
)

// OwnerJoinedRow is a relationship row joined with the owner's identity.
type OwnerJoinedRow struct {
	models.FamilyRelationship
	OwnerName  string `gorm:"column:owner_name"`
	OwnerEmail string `gorm:"column:owner_email"`
}

func accessibleProfileFromRow(row OwnerJoinedRow) AccessibleProfileDTO {
	return AccessibleProfileDTO{
		RelationshipID:   row.ID,
		OwnerUserID:      row.OwnerUserID,
		OwnerName:        row.OwnerName,
		OwnerEmail:       row.OwnerEmail,
		RelationshipType: row.RelationshipType,
		AccessLevel:      row.AccessLevel,
		AcceptedAt:       row.RespondedAt,
	}
}

func pendingInvitationFromRow(row OwnerJoinedRow) PendingInvitationDTO {
	return PendingInvitationDTO{
		RelationshipID:   row.ID,
		OwnerUserID:      row.OwnerUserID,
		OwnerName:        row.OwnerName,
		OwnerEmail:       row.OwnerEmail,
		RelationshipType: row.RelationshipType,
		AccessLevel:      row.AccessLevel,
		InvitedAt:        row.CreatedAt,
	}
}
