package emergency

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// Repository persists emergency access requests.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new request row.
func (r *Repository) Create(ctx context.Context, req *models.EmergencyAccessRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// FindPendingBetween returns the pending request from requester to target
// whose advisory expiry has not passed yet.
func (r *Repository) FindPendingBetween(ctx context.Context, requesterID, targetID uuid.UUID, now time.Time) (*models.EmergencyAccessRequest, error) {
	var req models.EmergencyAccessRequest
	err := r.db.WithContext(ctx).
		Where(
			"requester_user_id = ? AND target_user_id = ? AND status = ? AND expires_at > ?",
			requesterID, targetID, enums.EmergencyRequestStatusPending, now,
		).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByRequester returns the caller's requests, newest first.
func (r *Repository) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.EmergencyAccessRequest, error) {
	var rows []models.EmergencyAccessRequest
	err := r.db.WithContext(ctx).
		Where("requester_user_id = ?", requesterID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByTarget returns requests raised against the given user, newest first.
func (r *Repository) ListByTarget(ctx context.Context, targetID uuid.UUID) ([]models.EmergencyAccessRequest, error) {
	var rows []models.EmergencyAccessRequest
	err := r.db.WithContext(ctx).
		Where("target_user_id = ?", targetID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
