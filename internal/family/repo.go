package family

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// UniqueOwnerEmailConstraint names the DB backstop against duplicate invites.
const UniqueOwnerEmailConstraint = "uq_family_relationships_owner_email"

// Repository exposes relationship persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new relationship row.
func (r *Repository) Create(ctx context.Context, rel *models.FamilyRelationship) error {
	return r.db.WithContext(ctx).Create(rel).Error
}

// FindByID loads a relationship by primary key.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FamilyRelationship, error) {
	var rel models.FamilyRelationship
	if err := r.db.WithContext(ctx).First(&rel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rel, nil
}

// FindActiveByOwnerEmail returns any non-revoked row for (owner, email).
// Email matching is case-insensitive.
func (r *Repository) FindActiveByOwnerEmail(ctx context.Context, ownerID uuid.UUID, email string) (*models.FamilyRelationship, error) {
	var rel models.FamilyRelationship
	err := r.db.WithContext(ctx).
		Where(
			"owner_user_id = ? AND lower(family_email) = ? AND status <> ?",
			ownerID, normalizeEmail(email), enums.RelationshipStatusRevoked,
		).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// ListByOwner returns the owner's relationships, newest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FamilyRelationship, error) {
	var rows []models.FamilyRelationship
	err := r.db.WithContext(ctx).
		Where("owner_user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListAcceptedForMember returns accepted rows where the caller is the
// counterpart, matched by resolved user id OR stored email, joined with the
// owner's identity.
func (r *Repository) ListAcceptedForMember(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error) {
	var rows []OwnerJoinedRow
	err := r.db.WithContext(ctx).
		Model(&models.FamilyRelationship{}).
		Select("family_relationships.*, users.full_name AS owner_name, users.email AS owner_email").
		Joins("JOIN users ON users.id = family_relationships.owner_user_id").
		Where(
			"family_relationships.status = ? AND (family_relationships.family_user_id = ? OR lower(family_relationships.family_email) = ?)",
			enums.RelationshipStatusAccepted, userID, normalizeEmail(email),
		).
		Order("family_relationships.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingForMember returns pending invitations addressed to the caller.
func (r *Repository) ListPendingForMember(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error) {
	var rows []OwnerJoinedRow
	err := r.db.WithContext(ctx).
		Model(&models.FamilyRelationship{}).
		Select("family_relationships.*, users.full_name AS owner_name, users.email AS owner_email").
		Joins("JOIN users ON users.id = family_relationships.owner_user_id").
		Where(
			"family_relationships.status = ? AND (family_relationships.family_user_id = ? OR lower(family_relationships.family_email) = ?)",
			enums.RelationshipStatusPending, userID, normalizeEmail(email),
		).
		Order("family_relationships.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkResponded transitions a pending row to accepted/declined, stamping the
// responder and time. Returns the number of rows changed; zero means the row
// was missing, already processed, or addressed to someone else.
func (r *Repository) MarkResponded(ctx context.Context, id uuid.UUID, email string, status enums.RelationshipStatus, responderID uuid.UUID, at time.Time) (int64, error) {
	updates := map[string]any{
		"status":       status,
		"responded_at": at,
	}
	if status == enums.RelationshipStatusAccepted {
		updates["family_user_id"] = responderID
	}

	result := r.db.WithContext(ctx).
		Model(&models.FamilyRelationship{}).
		Where(
			"id = ? AND status = ? AND lower(family_email) = ?",
			id, enums.RelationshipStatusPending, normalizeEmail(email),
		).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// UpdateAccessLevel changes the granted tier on an owner's non-revoked row.
// Returns zero rows affected when the row is missing or not owned.
func (r *Repository) UpdateAccessLevel(ctx context.Context, id, ownerID uuid.UUID, level enums.AccessLevel) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FamilyRelationship{}).
		Where(
			"id = ? AND owner_user_id = ? AND status <> ?",
			id, ownerID, enums.RelationshipStatusRevoked,
		).
		Update("access_level", level)
	return result.RowsAffected, result.Error
}

// Revoke transitions an owner's row to revoked. Returns zero rows affected
// when the row is missing, not owned, or already revoked.
func (r *Repository) Revoke(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.FamilyRelationship{}).
		Where(
			"id = ? AND owner_user_id = ? AND status <> ?",
			id, ownerID, enums.RelationshipStatusRevoked,
		).
		Update("status", enums.RelationshipStatusRevoked)
	return result.RowsAffected, result.Error
}

// FindAcceptedBetween returns the accepted relationship granting viewer
// access to owner, matched by resolved user id OR stored email.
func (r *Repository) FindAcceptedBetween(ctx context.Context, ownerID, viewerID uuid.UUID, viewerEmail string) (*models.FamilyRelationship, error) {
	var rel models.FamilyRelationship
	err := r.db.WithContext(ctx).
		Where(
			"owner_user_id = ? AND status = ? AND (family_user_id = ? OR lower(family_email) = ?)",
			ownerID, enums.RelationshipStatusAccepted, viewerID, normalizeEmail(viewerEmail),
		).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
