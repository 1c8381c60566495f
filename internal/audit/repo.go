package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	dbtypes "github.com/shahinarahman616-del/HealthMate/pkg/db/types"
	"github.com/shahinarahman616-del/HealthMate/pkg/pagination"
)

// Repository persists family access log rows. The table is append-only.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a single log row.
func (r *Repository) Append(ctx context.Context, entry Entry) (*models.FamilyAccessLog, error) {
	if entry.OwnerUserID == uuid.Nil {
		return nil, fmt.Errorf("owner user id is required")
	}
	if entry.Action == "" {
		return nil, fmt.Errorf("action is required")
	}

	details := entry.Details
	if details == nil {
		details = map[string]any{}
	}

	row := &models.FamilyAccessLog{
		OwnerUserID:    entry.OwnerUserID,
		ActorUserID:    entry.ActorUserID,
		ActorName:      entry.ActorName,
		Action:         entry.Action,
		Details:        dbtypes.JSONMap(details),
		RelationshipID: entry.RelationshipID,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// ListForParticipant returns rows for relationships where the caller is the
// owner or the (resolved or email-matched) counterpart, newest first.
func (r *Repository) ListForParticipant(ctx context.Context, userID uuid.UUID, email string, limit int, cursor *pagination.Cursor) ([]models.FamilyAccessLog, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))

	counterpartRelationships := r.db.
		Model(&models.FamilyRelationship{}).
		Select("id").
		Where("family_user_id = ? OR lower(family_email) = ?", userID, normalized)

	query := r.db.WithContext(ctx).
		Model(&models.FamilyAccessLog{}).
		Where(
			"owner_user_id = ? OR relationship_id IN (?)",
			userID, counterpartRelationships,
		)

	if cursor != nil {
		query = query.Where(
			"(created_at, id) < (?, ?)",
			cursor.CreatedAt, cursor.ID,
		)
	}

	var rows []models.FamilyAccessLog
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
