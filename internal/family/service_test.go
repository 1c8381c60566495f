package family

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

type stubRelationshipRepo struct {
	createFn                 func(ctx context.Context, rel *models.FamilyRelationship) error
	findByIDFn               func(ctx context.Context, id uuid.UUID) (*models.FamilyRelationship, error)
	findActiveByOwnerEmailFn func(ctx context.Context, ownerID uuid.UUID, email string) (*models.FamilyRelationship, error)
	listByOwnerFn            func(ctx context.Context, ownerID uuid.UUID) ([]models.FamilyRelationship, error)
	listAcceptedFn           func(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error)
	listPendingFn            func(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error)
	markRespondedFn          func(ctx context.Context, id uuid.UUID, email string, status enums.RelationshipStatus, responderID uuid.UUID, at time.Time) (int64, error)
	updateAccessLevelFn      func(ctx context.Context, id, ownerID uuid.UUID, level enums.AccessLevel) (int64, error)
	revokeFn                 func(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
}

func (s *stubRelationshipRepo) Create(ctx context.Context, rel *models.FamilyRelationship) error {
	return s.createFn(ctx, rel)
}

func (s *stubRelationshipRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FamilyRelationship, error) {
	return s.findByIDFn(ctx, id)
}

func (s *stubRelationshipRepo) FindActiveByOwnerEmail(ctx context.Context, ownerID uuid.UUID, email string) (*models.FamilyRelationship, error) {
	return s.findActiveByOwnerEmailFn(ctx, ownerID, email)
}

func (s *stubRelationshipRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FamilyRelationship, error) {
	return s.listByOwnerFn(ctx, ownerID)
}

func (s *stubRelationshipRepo) ListAcceptedForMember(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error) {
	return s.listAcceptedFn(ctx, userID, email)
}

func (s *stubRelationshipRepo) ListPendingForMember(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error) {
	return s.listPendingFn(ctx, userID, email)
}

func (s *stubRelationshipRepo) MarkResponded(ctx context.Context, id uuid.UUID, email string, status enums.RelationshipStatus, responderID uuid.UUID, at time.Time) (int64, error) {
	return s.markRespondedFn(ctx, id, email, status, responderID, at)
}

func (s *stubRelationshipRepo) UpdateAccessLevel(ctx context.Context, id, ownerID uuid.UUID, level enums.AccessLevel) (int64, error) {
	return s.updateAccessLevelFn(ctx, id, ownerID, level)
}

func (s *stubRelationshipRepo) Revoke(ctx context.Context, id, ownerID uuid.UUID) (int64, error) {
	return s.revokeFn(ctx, id, ownerID)
}

type stubUserDirectory struct {
	findByEmailFn func(ctx context.Context, email string) (*models.User, error)
}

func (s *stubUserDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findByEmailFn(ctx, email)
}

type captureAudit struct {
	entries []audit.Entry
}

func (c *captureAudit) Record(_ context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

type capturePush struct {
	userID uuid.UUID
	kind   enums.NotificationType
	title  string
	body   string
	count  int
}

func (c *capturePush) Push(_ context.Context, userID uuid.UUID, kind enums.NotificationType, title, body string) {
	c.userID = userID
	c.kind = kind
	c.title = title
	c.body = body
	c.count++
}

func newTestService(t *testing.T, repo *stubRelationshipRepo, users *stubUserDirectory, recorder *captureAudit, pusher *capturePush) Service {
	t.Helper()
	if users == nil {
		users = &stubUserDirectory{
			findByEmailFn: func(context.Context, string) (*models.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
	}
	params := ServiceParams{Repo: repo, Users: users, Audit: recorder}
	if pusher != nil {
		params.Notifier = pusher
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestInviteRejectsSelfInvite(t *testing.T) {
	svc := newTestService(t, &stubRelationshipRepo{}, nil, &captureAudit{}, nil)

	owner := Actor{ID: uuid.New(), Email: "owner@example.com", Name: "Owner"}
	_, err := svc.Invite(context.Background(), owner, InviteRequest{
		Email:            "OWNER@Example.com",
		Name:             "Me",
		RelationshipType: enums.RelationshipTypeSibling,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInviteRejectsDuplicate(t *testing.T) {
	repo := &stubRelationshipRepo{
		findActiveByOwnerEmailFn: func(context.Context, uuid.UUID, string) (*models.FamilyRelationship, error) {
			return &models.FamilyRelationship{ID: uuid.New()}, nil
		},
	}
	svc := newTestService(t, repo, nil, &captureAudit{}, nil)

	owner := Actor{ID: uuid.New(), Email: "owner@example.com"}
	_, err := svc.Invite(context.Background(), owner, InviteRequest{
		Email:            "sister@example.com",
		Name:             "Sister",
		RelationshipType: enums.RelationshipTypeSibling,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestInviteResolvesRegisteredCounterpart(t *testing.T) {
	counterpartID := uuid.New()
	var created *models.FamilyRelationship
	repo := &stubRelationshipRepo{
		findActiveByOwnerEmailFn: func(context.Context, uuid.UUID, string) (*models.FamilyRelationship, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(_ context.Context, rel *models.FamilyRelationship) error {
			rel.ID = uuid.New()
			created = rel
			return nil
		},
	}
	users := &stubUserDirectory{
		findByEmailFn: func(_ context.Context, email string) (*models.User, error) {
			if email != "sister@example.com" {
				t.Fatalf("unexpected lookup email %q", email)
			}
			return &models.User{ID: counterpartID}, nil
		},
	}
	recorder := &captureAudit{}
	pusher := &capturePush{}
	svc := newTestService(t, repo, users, recorder, pusher)

	owner := Actor{ID: uuid.New(), Email: "owner@example.com", Name: "Owner"}
	dto, err := svc.Invite(context.Background(), owner, InviteRequest{
		Email:            "Sister@Example.com",
		Name:             "Sister",
		RelationshipType: enums.RelationshipTypeSibling,
	})
	if err != nil {
		t.Fatalf("Invite returned error: %v", err)
	}
	if created == nil || created.FamilyUserID == nil || *created.FamilyUserID != counterpartID {
		t.Fatalf("expected counterpart id on created row, got %+v", created)
	}
	if created.FamilyEmail != "sister@example.com" {
		t.Fatalf("expected lower-cased email, got %q", created.FamilyEmail)
	}
	if dto.AccessLevel != enums.AccessLevelViewOnly {
		t.Fatalf("expected default view_only, got %q", dto.AccessLevel)
	}
	if dto.Status != enums.RelationshipStatusPending {
		t.Fatalf("expected pending status, got %q", dto.Status)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionInviteSent {
		t.Fatalf("expected invite_sent audit entry, got %+v", recorder.entries)
	}
	if pusher.count != 1 || pusher.userID != counterpartID || pusher.kind != enums.NotificationTypeFamilyInvite {
		t.Fatalf("expected family_invite push to counterpart, got %+v", pusher)
	}
}

func TestInviteUnregisteredCounterpart(t *testing.T) {
	var created *models.FamilyRelationship
	repo := &stubRelationshipRepo{
		findActiveByOwnerEmailFn: func(context.Context, uuid.UUID, string) (*models.FamilyRelationship, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(_ context.Context, rel *models.FamilyRelationship) error {
			created = rel
			return nil
		},
	}
	pusher := &capturePush{}
	svc := newTestService(t, repo, nil, &captureAudit{}, pusher)

	owner := Actor{ID: uuid.New(), Email: "owner@example.com"}
	_, err := svc.Invite(context.Background(), owner, InviteRequest{
		Email:            "uncle@example.com",
		Name:             "Uncle",
		RelationshipType: enums.RelationshipTypeOther,
		AccessLevel:      enums.AccessLevelManage,
	})
	if err != nil {
		t.Fatalf("Invite returned error: %v", err)
	}
	if created.FamilyUserID != nil {
		t.Fatalf("expected nil family_user_id for unregistered invitee")
	}
	if created.AccessLevel != enums.AccessLevelManage {
		t.Fatalf("expected requested access level, got %q", created.AccessLevel)
	}
	if pusher.count != 0 {
		t.Fatalf("expected no push for unregistered invitee, got %d", pusher.count)
	}
}

func TestInviteUniqueViolationMapsToConflict(t *testing.T) {
	repo := &stubRelationshipRepo{
		findActiveByOwnerEmailFn: func(context.Context, uuid.UUID, string) (*models.FamilyRelationship, error) {
			return nil, gorm.ErrRecordNotFound
		},
		createFn: func(context.Context, *models.FamilyRelationship) error {
			return errors.New(`duplicate key value violates unique constraint "uq_family_relationships_owner_email"`)
		},
	}
	svc := newTestService(t, repo, nil, &captureAudit{}, nil)

	owner := Actor{ID: uuid.New(), Email: "owner@example.com"}
	_, err := svc.Invite(context.Background(), owner, InviteRequest{
		Email:            "sister@example.com",
		Name:             "Sister",
		RelationshipType: enums.RelationshipTypeSibling,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on unique violation, got %v", err)
	}
}

func TestRespondRejectsUnknownAction(t *testing.T) {
	svc := newTestService(t, &stubRelationshipRepo{}, nil, &captureAudit{}, nil)

	actor := Actor{ID: uuid.New(), Email: "sister@example.com"}
	_, err := svc.Respond(context.Background(), actor, uuid.New(), "maybe")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRespondNotFoundWhenNoRowMatches(t *testing.T) {
	repo := &stubRelationshipRepo{
		markRespondedFn: func(context.Context, uuid.UUID, string, enums.RelationshipStatus, uuid.UUID, time.Time) (int64, error) {
			return 0, nil
		},
	}
	svc := newTestService(t, repo, nil, &captureAudit{}, nil)

	actor := Actor{ID: uuid.New(), Email: "sister@example.com"}
	_, err := svc.Respond(context.Background(), actor, uuid.New(), "accept")
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != invitationGoneMessage {
		t.Fatalf("expected single invitation-gone message, got %v", err)
	}
}

func TestRespondAccept(t *testing.T) {
	relID := uuid.New()
	ownerID := uuid.New()
	actorID := uuid.New()
	repo := &stubRelationshipRepo{
		markRespondedFn: func(_ context.Context, id uuid.UUID, email string, status enums.RelationshipStatus, responderID uuid.UUID, _ time.Time) (int64, error) {
			if id != relID || email != "sister@example.com" || status != enums.RelationshipStatusAccepted || responderID != actorID {
				t.Fatalf("unexpected mark args: %v %q %q %v", id, email, status, responderID)
			}
			return 1, nil
		},
		findByIDFn: func(context.Context, uuid.UUID) (*models.FamilyRelationship, error) {
			now := time.Now().UTC()
			return &models.FamilyRelationship{
				ID:               relID,
				OwnerUserID:      ownerID,
				FamilyUserID:     &actorID,
				FamilyEmail:      "sister@example.com",
				RelationshipType: enums.RelationshipTypeSibling,
				AccessLevel:      enums.AccessLevelViewOnly,
				Status:           enums.RelationshipStatusAccepted,
				RespondedAt:      &now,
			}, nil
		},
	}
	recorder := &captureAudit{}
	pusher := &capturePush{}
	svc := newTestService(t, repo, nil, recorder, pusher)

	actor := Actor{ID: actorID, Email: "sister@example.com", Name: "Sister"}
	dto, err := svc.Respond(context.Background(), actor, relID, "accept")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if dto.Status != enums.RelationshipStatusAccepted {
		t.Fatalf("expected accepted status, got %q", dto.Status)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionInvitationAccepted {
		t.Fatalf("expected invitation_accepted audit entry, got %+v", recorder.entries)
	}
	if recorder.entries[0].OwnerUserID != ownerID {
		t.Fatalf("audit entry must belong to the owner, got %v", recorder.entries[0].OwnerUserID)
	}
	if pusher.count != 1 || pusher.userID != ownerID || pusher.kind != enums.NotificationTypeInviteResponse {
		t.Fatalf("expected invite_response push to owner, got %+v", pusher)
	}
}

func TestRespondDeclineNotifiesOwnerWithStatusWording(t *testing.T) {
	relID := uuid.New()
	ownerID := uuid.New()
	actorID := uuid.New()
	repo := &stubRelationshipRepo{
		markRespondedFn: func(_ context.Context, _ uuid.UUID, _ string, status enums.RelationshipStatus, _ uuid.UUID, _ time.Time) (int64, error) {
			if status != enums.RelationshipStatusDeclined {
				t.Fatalf("expected declined status, got %q", status)
			}
			return 1, nil
		},
		findByIDFn: func(context.Context, uuid.UUID) (*models.FamilyRelationship, error) {
			now := time.Now().UTC()
			return &models.FamilyRelationship{
				ID:               relID,
				OwnerUserID:      ownerID,
				FamilyEmail:      "brother@example.com",
				RelationshipType: enums.RelationshipTypeSibling,
				AccessLevel:      enums.AccessLevelViewOnly,
				Status:           enums.RelationshipStatusDeclined,
				RespondedAt:      &now,
			}, nil
		},
	}
	pusher := &capturePush{}
	svc := newTestService(t, repo, nil, &captureAudit{}, pusher)

	actor := Actor{ID: actorID, Email: "brother@example.com", Name: "Brother"}
	dto, err := svc.Respond(context.Background(), actor, relID, "decline")
	if err != nil {
		t.Fatalf("Respond returned error: %v", err)
	}
	if dto.Status != enums.RelationshipStatusDeclined {
		t.Fatalf("expected declined status, got %q", dto.Status)
	}
	if pusher.title != "Invitation declined" {
		t.Fatalf("unexpected push title %q", pusher.title)
	}
	if pusher.body != "Brother declined your family invitation" {
		t.Fatalf("unexpected push body %q", pusher.body)
	}
}

func TestUpdateAccessLevelForeignOwnerIsNotFound(t *testing.T) {
	repo := &stubRelationshipRepo{
		findByIDFn: func(context.Context, uuid.UUID) (*models.FamilyRelationship, error) {
			return &models.FamilyRelationship{ID: uuid.New(), OwnerUserID: uuid.New()}, nil
		},
	}
	svc := newTestService(t, repo, nil, &captureAudit{}, nil)

	_, err := svc.UpdateAccessLevel(context.Background(), uuid.New(), uuid.New(), enums.AccessLevelManage)
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign owner, got %v", err)
	}
}

func TestUpdateAccessLevelRecordsTransition(t *testing.T) {
	relID := uuid.New()
	ownerID := uuid.New()
	repo := &stubRelationshipRepo{
		findByIDFn: func(context.Context, uuid.UUID) (*models.FamilyRelationship, error) {
			return &models.FamilyRelationship{
				ID:          relID,
				OwnerUserID: ownerID,
				FamilyEmail: "sister@example.com",
				AccessLevel: enums.AccessLevelViewOnly,
				Status:      enums.RelationshipStatusAccepted,
			}, nil
		},
		updateAccessLevelFn: func(context.Context, uuid.UUID, uuid.UUID, enums.AccessLevel) (int64, error) {
			return 1, nil
		},
	}
	recorder := &captureAudit{}
	svc := newTestService(t, repo, nil, recorder, nil)

	dto, err := svc.UpdateAccessLevel(context.Background(), ownerID, relID, enums.AccessLevelEmergency)
	if err != nil {
		t.Fatalf("UpdateAccessLevel returned error: %v", err)
	}
	if dto.AccessLevel != enums.AccessLevelEmergency {
		t.Fatalf("expected emergency level, got %q", dto.AccessLevel)
	}
	if len(recorder.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(recorder.entries))
	}
	details := recorder.entries[0].Details
	if details["previous_level"] != "view_only" || details["new_level"] != "emergency" {
		t.Fatalf("expected level transition in details, got %+v", details)
	}
}

func TestRevoke(t *testing.T) {
	relID := uuid.New()
	ownerID := uuid.New()
	repo := &stubRelationshipRepo{
		findByIDFn: func(context.Context, uuid.UUID) (*models.FamilyRelationship, error) {
			return &models.FamilyRelationship{ID: relID, OwnerUserID: ownerID, FamilyEmail: "sister@example.com"}, nil
		},
		revokeFn: func(_ context.Context, id, owner uuid.UUID) (int64, error) {
			if id != relID || owner != ownerID {
				t.Fatalf("unexpected revoke args: %v %v", id, owner)
			}
			return 1, nil
		},
	}
	recorder := &captureAudit{}
	svc := newTestService(t, repo, nil, recorder, nil)

	if err := svc.Revoke(context.Background(), ownerID, relID); err != nil {
		t.Fatalf("Revoke returned error: %v", err)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionAccessRevoked {
		t.Fatalf("expected access_revoked audit entry, got %+v", recorder.entries)
	}
}

func TestRevokeMissingRelationship(t *testing.T) {
	repo := &stubRelationshipRepo{
		findByIDFn: func(context.Context, uuid.UUID) (*models.FamilyRelationship, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo, nil, &captureAudit{}, nil)

	err := svc.Revoke(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListAccessible(t *testing.T) {
	ownerID := uuid.New()
	accepted := time.Now().UTC()
	repo := &stubRelationshipRepo{
		listAcceptedFn: func(_ context.Context, _ uuid.UUID, email string) ([]OwnerJoinedRow, error) {
			if email != "sister@example.com" {
				t.Fatalf("unexpected member email %q", email)
			}
			return []OwnerJoinedRow{{
				FamilyRelationship: models.FamilyRelationship{
					ID:               uuid.New(),
					OwnerUserID:      ownerID,
					RelationshipType: enums.RelationshipTypeSibling,
					AccessLevel:      enums.AccessLevelViewOnly,
					Status:           enums.RelationshipStatusAccepted,
					RespondedAt:      &accepted,
				},
				OwnerName:  "Owner",
				OwnerEmail: "owner@example.com",
			}}, nil
		},
	}
	svc := newTestService(t, repo, nil, &captureAudit{}, nil)

	actor := Actor{ID: uuid.New(), Email: "sister@example.com"}
	profiles, err := svc.ListAccessible(context.Background(), actor)
	if err != nil {
		t.Fatalf("ListAccessible returned error: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected one profile, got %d", len(profiles))
	}
	if profiles[0].OwnerUserID != ownerID || profiles[0].OwnerName != "Owner" {
		t.Fatalf("unexpected profile %+v", profiles[0])
	}
}
