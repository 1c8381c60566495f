package models

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken holds a short-lived verification code issued by the
// forgot-password flow. Consumed tokens are marked, not deleted.
type PasswordResetToken struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index"`
	CodeHash  string     `gorm:"column:code_hash;type:text;not null"`
	ExpiresAt time.Time  `gorm:"column:expires_at;type:timestamptz;not null"`
	UsedAt    *time.Time `gorm:"column:used_at;type:timestamptz"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
}
