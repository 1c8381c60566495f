package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
)

// ResetTokenRepository persists password reset codes.
type ResetTokenRepository struct {
	db *gorm.DB
}

// NewResetTokenRepository binds the repo to the provided GORM connection.
func NewResetTokenRepository(db *gorm.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Create inserts a new reset token row.
func (r *ResetTokenRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// FindValid returns the newest unused, unexpired token for the user.
func (r *ResetTokenRepository) FindValid(ctx context.Context, userID uuid.UUID, now time.Time) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND used_at IS NULL AND expires_at > ?", userID, now).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// MarkUsed stamps the token as consumed.
func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", id).
		Update("used_at", at).Error
}

// InvalidateForUser consumes every outstanding token so only the newest
// issued code works.
func (r *ResetTokenRepository) InvalidateForUser(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.PasswordResetToken{}).
		Where("user_id = ? AND used_at IS NULL", userID).
		Update("used_at", at).Error
}
