package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/access"
	"github.com/shahinarahman616-del/HealthMate/internal/users"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

const profileNotFoundMessage = "profile not found"

// Service exposes health profile reads and writes.
type Service interface {
	GetOwn(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error)
	UpdateOwn(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error)
	GetShared(ctx context.Context, viewer access.Viewer, ownerID uuid.UUID) (*SharedProfileDTO, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, dto users.ProfileUpdateDTO) (*models.User, error)
}

// ServiceParams bundles the profile service dependencies.
type ServiceParams struct {
	Users     userRepository
	Evaluator access.Evaluator
}

type service struct {
	users     userRepository
	evaluator access.Evaluator
}

// NewService constructs the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.Users == nil {
		return nil, fmt.Errorf("user repository is required")
	}
	if params.Evaluator == nil {
		return nil, fmt.Errorf("access evaluator is required")
	}
	return &service{users: params.Users, evaluator: params.Evaluator}, nil
}

func (s *service) GetOwn(ctx context.Context, userID uuid.UUID) (*users.UserDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, profileNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return users.FromModel(user), nil
}

func (s *service) UpdateOwn(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*users.UserDTO, error) {
	update := users.ProfileUpdateDTO{
		FullName:        req.FullName,
		Phone:           req.Phone,
		DateOfBirth:     req.DateOfBirth,
		BloodGroup:      req.BloodGroup,
		HeightCM:        req.HeightCM,
		WeightKG:        req.WeightKG,
		ChronicDiseases: req.ChronicDiseases,
	}
	if req.Gender != nil {
		gender, err := enums.ParseGender(*req.Gender)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid gender")
		}
		update.Gender = &gender
	}

	user, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, profileNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	return users.FromModel(user), nil
}

// GetShared returns the owner's profile for a viewer with an accepted
// relationship. The read is audited best-effort after it succeeds; a denied
// check leaves no audit trace.
func (s *service) GetShared(ctx context.Context, viewer access.Viewer, ownerID uuid.UUID) (*SharedProfileDTO, error) {
	grant, err := s.evaluator.Evaluate(ctx, viewer, ownerID)
	if err != nil {
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, profileNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load shared profile")
	}

	s.evaluator.RecordProfileView(ctx, viewer, ownerID, grant)

	return &SharedProfileDTO{
		Profile:        *users.FromModel(owner),
		AccessLevel:    grant.Level,
		RelationshipID: grant.RelationshipID,
		Self:           grant.Self,
	}, nil
}
