package emergency

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// RequestDTO is the payload for raising an emergency access request.
type RequestDTO struct {
	TargetEmail string `json:"target_email" validate:"required,email"`
	Reason      string `json:"reason" validate:"required,max=500"`
}

// AccessRequestDTO is the transport shape of an emergency request row.
type AccessRequestDTO struct {
	ID              uuid.UUID                    `json:"id"`
	RequesterUserID uuid.UUID                    `json:"requester_user_id"`
	TargetUserID    uuid.UUID                    `json:"target_user_id"`
	TargetName      string                       `json:"target_name,omitempty"`
	Reason          string                       `json:"reason"`
	Status          enums.EmergencyRequestStatus `json:"status"`
	ExpiresAt       time.Time                    `json:"expires_at"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(m *models.EmergencyAccessRequest) *AccessRequestDTO {
	if m == nil {
		return nil
	}
	return &AccessRequestDTO{
		ID:              m.ID,
		RequesterUserID: m.RequesterUserID,
		TargetUserID:    m.TargetUserID,
		Reason:          m.Reason,
		Status:          m.Status,
		ExpiresAt:       m.ExpiresAt,
		CreatedAt:       m.CreatedAt,
	}
}
