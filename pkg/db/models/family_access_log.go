package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/shahinarahman616-del/HealthMate/pkg/db/types"
)

// FamilyAccessLog is an append-only record of family-sharing activity.
// Rows are never updated or deleted.
type FamilyAccessLog struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID    uuid.UUID       `gorm:"column:owner_user_id;type:uuid;not null;index"`
	ActorUserID    *uuid.UUID      `gorm:"column:actor_user_id;type:uuid"`
	ActorName      string          `gorm:"column:actor_name;type:text;not null"`
	Action         string          `gorm:"column:action;type:text;not null"`
	Details        dbtypes.JSONMap `gorm:"column:details;type:jsonb;not null;default:'{}'"`
	RelationshipID *uuid.UUID      `gorm:"column:relationship_id;type:uuid"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamptz;default:now()"`
}
