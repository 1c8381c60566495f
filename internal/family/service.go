package family

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/pkg/db"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

const (
	alreadyInvitedMessage = "this person has already been invited"
	selfInviteMessage     = "you cannot invite yourself"
	notFoundMessage       = "relationship not found"
	invitationGoneMessage = "invitation not found or already processed"
	invalidActionMessage  = "action must be accept or decline"
	invalidLevelMessage   = "invalid access level"
	invalidRelTypeMessage = "invalid relationship type"
	respondActionAccept   = "accept"
	respondActionDecline  = "decline"
)

// Actor identifies the authenticated caller of a family operation.
type Actor struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Service defines the family-sharing behavior needed by controllers.
type Service interface {
	Invite(ctx context.Context, owner Actor, req InviteRequest) (*RelationshipDTO, error)
	Respond(ctx context.Context, actor Actor, relationshipID uuid.UUID, action string) (*RelationshipDTO, error)
	UpdateAccessLevel(ctx context.Context, ownerID, relationshipID uuid.UUID, level enums.AccessLevel) (*RelationshipDTO, error)
	Revoke(ctx context.Context, ownerID, relationshipID uuid.UUID) error
	ListOwned(ctx context.Context, ownerID uuid.UUID) ([]RelationshipDTO, error)
	ListAccessible(ctx context.Context, actor Actor) ([]AccessibleProfileDTO, error)
	ListPendingInvitations(ctx context.Context, actor Actor) ([]PendingInvitationDTO, error)
}

type relationshipRepository interface {
	Create(ctx context.Context, rel *models.FamilyRelationship) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.FamilyRelationship, error)
	FindActiveByOwnerEmail(ctx context.Context, ownerID uuid.UUID, email string) (*models.FamilyRelationship, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FamilyRelationship, error)
	ListAcceptedForMember(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error)
	ListPendingForMember(ctx context.Context, userID uuid.UUID, email string) ([]OwnerJoinedRow, error)
	MarkResponded(ctx context.Context, id uuid.UUID, email string, status enums.RelationshipStatus, responderID uuid.UUID, at time.Time) (int64, error)
	UpdateAccessLevel(ctx context.Context, id, ownerID uuid.UUID, level enums.AccessLevel) (int64, error)
	Revoke(ctx context.Context, id, ownerID uuid.UUID) (int64, error)
}

type userDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// notifier delivers best-effort in-app notifications.
type notifier interface {
	Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string)
}

// ServiceParams bundles the dependencies required to build the family service.
type ServiceParams struct {
	Repo     relationshipRepository
	Users    userDirectory
	Audit    auditRecorder
	Notifier notifier
}

type service struct {
	repo     relationshipRepository
	users    userDirectory
	audit    auditRecorder
	notifier notifier
}

// NewService constructs the family service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("relationship repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &service{
		repo:     params.Repo,
		users:    params.Users,
		audit:    params.Audit,
		notifier: params.Notifier,
	}, nil
}

func (s *service) Invite(ctx context.Context, owner Actor, req InviteRequest) (*RelationshipDTO, error) {
	email := normalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.RelationshipType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidRelTypeMessage)
	}

	level := req.AccessLevel
	if level == "" {
		level = enums.AccessLevelViewOnly
	}
	if !level.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidLevelMessage)
	}

	if email == normalizeEmail(owner.Email) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, selfInviteMessage)
	}

	if _, err := s.repo.FindActiveByOwnerEmail(ctx, owner.ID, email); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadyInvitedMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check existing invite")
	}

	// Resolve the counterpart opportunistically; an unregistered invitee is
	// matched by email until they sign up.
	var familyUserID *uuid.UUID
	counterpart, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		familyUserID = &counterpart.ID
	case errors.Is(err, gorm.ErrRecordNotFound):
		// invitee not registered yet
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve invitee")
	}

	rel := &models.FamilyRelationship{
		OwnerUserID:      owner.ID,
		FamilyUserID:     familyUserID,
		FamilyEmail:      email,
		FamilyName:       strings.TrimSpace(req.Name),
		RelationshipType: req.RelationshipType,
		AccessLevel:      level,
		Status:           enums.RelationshipStatusPending,
	}
	if err := s.repo.Create(ctx, rel); err != nil {
		if db.IsUniqueViolation(err, UniqueOwnerEmailConstraint) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, alreadyInvitedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create relationship")
	}

	s.audit.Record(ctx, audit.Entry{
		OwnerUserID: owner.ID,
		ActorUserID: &owner.ID,
		ActorName:   owner.Name,
		Action:      audit.ActionInviteSent,
		Details: map[string]any{
			"family_email":      email,
			"relationship_type": string(req.RelationshipType),
			"access_level":      string(level),
		},
		RelationshipID: &rel.ID,
	})

	if s.notifier != nil && familyUserID != nil {
		s.notifier.Push(ctx, *familyUserID, enums.NotificationTypeFamilyInvite,
			"Family invitation",
			fmt.Sprintf("%s invited you to view their health records", owner.Name))
	}

	return ToDTO(rel), nil
}

func (s *service) Respond(ctx context.Context, actor Actor, relationshipID uuid.UUID, action string) (*RelationshipDTO, error) {
	var status enums.RelationshipStatus
	var auditAction string
	switch strings.ToLower(strings.TrimSpace(action)) {
	case respondActionAccept:
		status = enums.RelationshipStatusAccepted
		auditAction = audit.ActionInvitationAccepted
	case respondActionDecline:
		status = enums.RelationshipStatusDeclined
		auditAction = audit.ActionInvitationDeclined
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidActionMessage)
	}

	affected, err := s.repo.MarkResponded(ctx, relationshipID, actor.Email, status, actor.ID, time.Now().UTC())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "respond to invitation")
	}
	if affected == 0 {
		// Missing, already processed, or addressed to someone else; one
		// message for all three so nothing leaks.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, invitationGoneMessage)
	}

	rel, err := s.repo.FindByID(ctx, relationshipID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload relationship")
	}

	s.audit.Record(ctx, audit.Entry{
		OwnerUserID: rel.OwnerUserID,
		ActorUserID: &actor.ID,
		ActorName:   actor.Name,
		Action:      auditAction,
		Details: map[string]any{
			"relationship_type": string(rel.RelationshipType),
		},
		RelationshipID: &rel.ID,
	})

	if s.notifier != nil {
		s.notifier.Push(ctx, rel.OwnerUserID, enums.NotificationTypeInviteResponse,
			"Invitation "+string(status),
			fmt.Sprintf("%s %s your family invitation", actor.Name, status))
	}

	return ToDTO(rel), nil
}

func (s *service) UpdateAccessLevel(ctx context.Context, ownerID, relationshipID uuid.UUID, level enums.AccessLevel) (*RelationshipDTO, error) {
	if !level.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, invalidLevelMessage)
	}

	existing, err := s.repo.FindByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load relationship")
	}
	// Ownership failures share the not-found message so foreign ids cannot
	// be probed.
	if existing.OwnerUserID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}
	previous := existing.AccessLevel

	affected, err := s.repo.UpdateAccessLevel(ctx, relationshipID, ownerID, level)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update access level")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}

	existing.AccessLevel = level

	s.audit.Record(ctx, audit.Entry{
		OwnerUserID: ownerID,
		ActorUserID: &ownerID,
		Action:      audit.ActionAccessUpdated,
		Details: map[string]any{
			"previous_level": string(previous),
			"new_level":      string(level),
			"family_email":   existing.FamilyEmail,
		},
		RelationshipID: &existing.ID,
	})

	return ToDTO(existing), nil
}

func (s *service) Revoke(ctx context.Context, ownerID, relationshipID uuid.UUID) error {
	existing, err := s.repo.FindByID(ctx, relationshipID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load relationship")
	}
	if existing.OwnerUserID != ownerID {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}

	affected, err := s.repo.Revoke(ctx, relationshipID, ownerID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke relationship")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, notFoundMessage)
	}

	s.audit.Record(ctx, audit.Entry{
		OwnerUserID: ownerID,
		ActorUserID: &ownerID,
		Action:      audit.ActionAccessRevoked,
		Details: map[string]any{
			"family_email": existing.FamilyEmail,
		},
		RelationshipID: &existing.ID,
	})

	return nil
}

func (s *service) ListOwned(ctx context.Context, ownerID uuid.UUID) ([]RelationshipDTO, error) {
	rows, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list relationships")
	}
	out := make([]RelationshipDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) ListAccessible(ctx context.Context, actor Actor) ([]AccessibleProfileDTO, error) {
	rows, err := s.repo.ListAcceptedForMember(ctx, actor.ID, actor.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list accessible profiles")
	}
	out := make([]AccessibleProfileDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, accessibleProfileFromRow(row))
	}
	return out, nil
}

func (s *service) ListPendingInvitations(ctx context.Context, actor Actor) ([]PendingInvitationDTO, error) {
	rows, err := s.repo.ListPendingForMember(ctx, actor.ID, actor.Email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list pending invitations")
	}
	out := make([]PendingInvitationDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, pendingInvitationFromRow(row))
	}
	return out, nil
}
