package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/shahinarahman616-del/HealthMate/pkg/db/types"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// User represents the canonical identity entity plus the health profile
// fields that family members are granted access to.
type User struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string              `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash    string              `gorm:"column:password_hash;not null"`
	FullName        string              `gorm:"column:full_name;not null"`
	Phone           *string             `gorm:"column:phone"`
	DateOfBirth     *time.Time          `gorm:"column:date_of_birth;type:date"`
	Gender          *enums.Gender       `gorm:"column:gender;type:text"`
	BloodGroup      *string             `gorm:"column:blood_group"`
	HeightCM        *float64            `gorm:"column:height_cm"`
	WeightKG        *float64            `gorm:"column:weight_kg"`
	ChronicDiseases dbtypes.StringList  `gorm:"column:chronic_diseases;type:jsonb;not null;default:'[]'"`
	Status          enums.AccountStatus `gorm:"column:status;type:text;not null;default:'Active'"`
	EmailVerifiedAt *time.Time          `gorm:"column:email_verified_at"`
	LastLoginAt     *time.Time          `gorm:"column:last_login_at"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
