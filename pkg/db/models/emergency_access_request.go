package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// EmergencyAccessRequest records a request for time-boxed emergency access
// to another user's records. ExpiresAt is advisory; no background job
// transitions expired rows.
type EmergencyAccessRequest struct {
	ID              uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	RequesterUserID uuid.UUID                    `gorm:"column:requester_user_id;type:uuid;not null;index"`
	TargetUserID    uuid.UUID                    `gorm:"column:target_user_id;type:uuid;not null;index"`
	Reason          string                       `gorm:"column:reason;type:text;not null"`
	Status          enums.EmergencyRequestStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ExpiresAt       time.Time                    `gorm:"column:expires_at;type:timestamptz;not null"`
	CreatedAt       time.Time                    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                    `gorm:"column:updated_at;autoUpdateTime"`
}
