package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/internal/users"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// UpdateRequest is the payload for editing the caller's own profile. Nil
// fields leave the stored value untouched.
type UpdateRequest struct {
	FullName        *string    `json:"full_name,omitempty" validate:"omitempty,min=1,max=120"`
	Phone           *string    `json:"phone,omitempty" validate:"omitempty,max=32"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Gender          *string    `json:"gender,omitempty"`
	BloodGroup      *string    `json:"blood_group,omitempty" validate:"omitempty,max=8"`
	HeightCM        *float64   `json:"height_cm,omitempty" validate:"omitempty,gt=0,lt=300"`
	WeightKG        *float64   `json:"weight_kg,omitempty" validate:"omitempty,gt=0,lt=700"`
	ChronicDiseases []string   `json:"chronic_diseases,omitempty" validate:"omitempty,dive,min=1"`
}

// SharedProfileDTO is the profile view delivered to a family member,
// annotated with the access level their relationship grants.
type SharedProfileDTO struct {
	Profile        users.UserDTO     `json:"profile"`
	AccessLevel    enums.AccessLevel `json:"access_level"`
	RelationshipID *uuid.UUID        `json:"relationship_id,omitempty"`
	Self           bool              `json:"self"`
}
