package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	dbtypes "github.com/shahinarahman616-del/HealthMate/pkg/db/types"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email. Matching is
// case-insensitive; emails are stored lower-cased but legacy rows may not be.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("lower(email) = ?", normalized).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdateProfile applies the non-nil fields from the update DTO.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, dto ProfileUpdateDTO) (*models.User, error) {
	updates := map[string]any{}
	if dto.FullName != nil {
		updates["full_name"] = strings.TrimSpace(*dto.FullName)
	}
	if dto.Phone != nil {
		updates["phone"] = *dto.Phone
	}
	if dto.DateOfBirth != nil {
		updates["date_of_birth"] = *dto.DateOfBirth
	}
	if dto.Gender != nil {
		updates["gender"] = *dto.Gender
	}
	if dto.BloodGroup != nil {
		updates["blood_group"] = *dto.BloodGroup
	}
	if dto.HeightCM != nil {
		updates["height_cm"] = *dto.HeightCM
	}
	if dto.WeightKG != nil {
		updates["weight_kg"] = *dto.WeightKG
	}
	if dto.ChronicDiseases != nil {
		updates["chronic_diseases"] = dbtypes.StringList(dto.ChronicDiseases)
	}

	if len(updates) > 0 {
		if err := r.db.WithContext(ctx).
			Model(&models.User{}).
			Where("id = ?", id).
			Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.FindByID(ctx, id)
}

// SetPasswordHash replaces the stored credential hash.
func (r *Repository) SetPasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// SetAccountStatus flips the soft account state checked at login. Rows are
// never hard-deleted.
func (r *Repository) SetAccountStatus(ctx context.Context, id uuid.UUID, status enums.AccountStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid account status %q", status)
	}
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("status", status).Error
}

// FindNamesByIDs resolves display names for the provided user IDs. Unknown
// IDs are simply absent from the result.
func (r *Repository) FindNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]string{}, nil
	}

	var rows []struct {
		ID       uuid.UUID
		FullName string
	}
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Select("id, full_name").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string, len(rows))
	for _, row := range rows {
		names[row.ID] = row.FullName
	}
	return names, nil
}

// MarkEmailVerified stamps email_verified_at when not already set.
func (r *Repository) MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND email_verified_at IS NULL", id).
		UpdateColumn("email_verified_at", at).Error
}
