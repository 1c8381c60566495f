package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	dbtypes "github.com/shahinarahman616-del/HealthMate/pkg/db/types"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID              uuid.UUID           `json:"id"`
	Email           string              `json:"email"`
	FullName        string              `json:"full_name"`
	Phone           *string             `json:"phone,omitempty"`
	DateOfBirth     *time.Time          `json:"date_of_birth,omitempty"`
	Gender          *enums.Gender       `json:"gender,omitempty"`
	BloodGroup      *string             `json:"blood_group,omitempty"`
	HeightCM        *float64            `json:"height_cm,omitempty"`
	WeightKG        *float64            `json:"weight_kg,omitempty"`
	ChronicDiseases []string            `json:"chronic_diseases"`
	Status          enums.AccountStatus `json:"status"`
	LastLoginAt     *time.Time          `json:"last_login_at,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FullName     string
	Phone        *string
	DateOfBirth  *time.Time
	Gender       *enums.Gender
}

// ProfileUpdateDTO carries the caller-editable profile fields. Nil pointers
// leave the stored value untouched.
type ProfileUpdateDTO struct {
	FullName        *string
	Phone           *string
	DateOfBirth     *time.Time
	Gender          *enums.Gender
	BloodGroup      *string
	HeightCM        *float64
	WeightKG        *float64
	ChronicDiseases []string
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		FullName:        u.FullName,
		Phone:           u.Phone,
		DateOfBirth:     u.DateOfBirth,
		Gender:          u.Gender,
		BloodGroup:      u.BloodGroup,
		HeightCM:        u.HeightCM,
		WeightKG:        u.WeightKG,
		ChronicDiseases: append([]string(nil), []string(u.ChronicDiseases)...),
		Status:          u.Status,
		LastLoginAt:     u.LastLoginAt,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	return &models.User{
		Email:           strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash:    c.PasswordHash,
		FullName:        strings.TrimSpace(c.FullName),
		Phone:           c.Phone,
		DateOfBirth:     c.DateOfBirth,
		Gender:          c.Gender,
		ChronicDiseases: dbtypes.StringList{},
		Status:          enums.AccountStatusActive,
	}
}
