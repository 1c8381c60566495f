package profiles

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/access"
	"github.com/shahinarahman616-del/HealthMate/internal/users"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

type stubUserRepo struct {
	findByIDFn      func(ctx context.Context, id uuid.UUID) (*models.User, error)
	updateProfileFn func(ctx context.Context, id uuid.UUID, dto users.ProfileUpdateDTO) (*models.User, error)
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, dto users.ProfileUpdateDTO) (*models.User, error) {
	return s.updateProfileFn(ctx, id, dto)
}

type stubEvaluator struct {
	evaluateFn func(ctx context.Context, viewer access.Viewer, ownerID uuid.UUID) (*access.Grant, error)
	recorded   int
}

func (s *stubEvaluator) Evaluate(ctx context.Context, viewer access.Viewer, ownerID uuid.UUID) (*access.Grant, error) {
	return s.evaluateFn(ctx, viewer, ownerID)
}

func (s *stubEvaluator) RecordProfileView(context.Context, access.Viewer, uuid.UUID, *access.Grant) {
	s.recorded++
}

func newTestService(t *testing.T, repo *stubUserRepo, evaluator *stubEvaluator) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Users: repo, Evaluator: evaluator})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestGetOwnNotFound(t *testing.T) {
	repo := &stubUserRepo{
		findByIDFn: func(context.Context, uuid.UUID) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo, &stubEvaluator{})

	_, err := svc.GetOwn(context.Background(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateOwnParsesGender(t *testing.T) {
	userID := uuid.New()
	repo := &stubUserRepo{
		updateProfileFn: func(_ context.Context, id uuid.UUID, dto users.ProfileUpdateDTO) (*models.User, error) {
			if id != userID {
				t.Fatalf("unexpected user id %v", id)
			}
			if dto.Gender == nil || *dto.Gender != enums.GenderFemale {
				t.Fatalf("expected parsed gender, got %+v", dto.Gender)
			}
			return &models.User{ID: userID, FullName: "Updated"}, nil
		},
	}
	svc := newTestService(t, repo, &stubEvaluator{})

	gender := string(enums.GenderFemale)
	dto, err := svc.UpdateOwn(context.Background(), userID, UpdateRequest{Gender: &gender})
	if err != nil {
		t.Fatalf("UpdateOwn returned error: %v", err)
	}
	if dto.FullName != "Updated" {
		t.Fatalf("unexpected dto %+v", dto)
	}
}

func TestUpdateOwnRejectsBadGender(t *testing.T) {
	svc := newTestService(t, &stubUserRepo{}, &stubEvaluator{})

	bad := "unknown-value"
	_, err := svc.UpdateOwn(context.Background(), uuid.New(), UpdateRequest{Gender: &bad})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetSharedDeniedLeavesNoAudit(t *testing.T) {
	evaluator := &stubEvaluator{
		evaluateFn: func(context.Context, access.Viewer, uuid.UUID) (*access.Grant, error) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "denied")
		},
	}
	svc := newTestService(t, &stubUserRepo{}, evaluator)

	_, err := svc.GetShared(context.Background(), access.Viewer{ID: uuid.New()}, uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if evaluator.recorded != 0 {
		t.Fatalf("denied read must not be audited")
	}
}

func TestGetSharedRecordsView(t *testing.T) {
	ownerID := uuid.New()
	relID := uuid.New()
	evaluator := &stubEvaluator{
		evaluateFn: func(context.Context, access.Viewer, uuid.UUID) (*access.Grant, error) {
			return &access.Grant{Level: enums.AccessLevelViewOnly, RelationshipID: &relID}, nil
		},
	}
	repo := &stubUserRepo{
		findByIDFn: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			if id != ownerID {
				t.Fatalf("unexpected owner id %v", id)
			}
			return &models.User{ID: ownerID, FullName: "Owner"}, nil
		},
	}
	svc := newTestService(t, repo, evaluator)

	dto, err := svc.GetShared(context.Background(), access.Viewer{ID: uuid.New(), Email: "sister@example.com"}, ownerID)
	if err != nil {
		t.Fatalf("GetShared returned error: %v", err)
	}
	if dto.AccessLevel != enums.AccessLevelViewOnly || dto.Profile.FullName != "Owner" {
		t.Fatalf("unexpected dto %+v", dto)
	}
	if evaluator.recorded != 1 {
		t.Fatalf("expected one recorded view, got %d", evaluator.recorded)
	}
}
