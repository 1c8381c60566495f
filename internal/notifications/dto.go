package notifications

import (
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// NotificationDTO is the transport shape of a notification row.
type NotificationDTO struct {
	ID        uuid.UUID              `json:"id"`
	Type      enums.NotificationType `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Link      *string                `json:"link,omitempty"`
	Read      bool                   `json:"read"`
	CreatedAt time.Time              `json:"created_at"`
}

// FromModel converts a persisted row to the external DTO.
func FromModel(m *models.Notification) *NotificationDTO {
	if m == nil {
		return nil
	}
	return &NotificationDTO{
		ID:        m.ID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Link:      m.Link,
		Read:      m.ReadAt != nil,
		CreatedAt: m.CreatedAt,
	}
}
