package access

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

const deniedMessage = "you do not have access to this profile"

// Viewer identifies the user asking for access to someone else's records.
type Viewer struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Grant is the outcome of a successful access check. RelationshipID is
// nil when the viewer is the owner.
type Grant struct {
	Level          enums.AccessLevel
	RelationshipID *uuid.UUID
	Self           bool
}

// Evaluator decides whether a viewer may read an owner's health records.
type Evaluator interface {
	Evaluate(ctx context.Context, viewer Viewer, ownerID uuid.UUID) (*Grant, error)
	RecordProfileView(ctx context.Context, viewer Viewer, ownerID uuid.UUID, grant *Grant)
}

type relationshipFinder interface {
	FindAcceptedBetween(ctx context.Context, ownerID, viewerID uuid.UUID, viewerEmail string) (*models.FamilyRelationship, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

// EvaluatorParams bundles the evaluator dependencies.
type EvaluatorParams struct {
	Relationships relationshipFinder
	Audit         auditRecorder
}

type evaluator struct {
	relationships relationshipFinder
	audit         auditRecorder
}

// NewEvaluator constructs the access evaluator.
func NewEvaluator(params EvaluatorParams) (Evaluator, error) {
	if params.Relationships == nil {
		return nil, fmt.Errorf("relationship finder is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	return &evaluator{relationships: params.Relationships, audit: params.Audit}, nil
}

// Evaluate resolves the viewer's access level for the owner's records. A
// viewer always has full access to their own records; anyone else needs
// an accepted relationship, matched by user id or by email for accounts
// created after the invitation.
func (e *evaluator) Evaluate(ctx context.Context, viewer Viewer, ownerID uuid.UUID) (*Grant, error) {
	if viewer.ID == ownerID {
		return &Grant{Level: enums.AccessLevelManage, Self: true}, nil
	}

	rel, err := e.relationships.FindAcceptedBetween(ctx, ownerID, viewer.ID, viewer.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, deniedMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve access")
	}

	relID := rel.ID
	return &Grant{Level: rel.AccessLevel, RelationshipID: &relID}, nil
}

// RecordProfileView writes the best-effort audit entry for a successful
// read through family access. Self reads are not audited.
func (e *evaluator) RecordProfileView(ctx context.Context, viewer Viewer, ownerID uuid.UUID, grant *Grant) {
	if grant == nil || grant.Self || grant.RelationshipID == nil {
		return
	}
	e.audit.Record(ctx, audit.Entry{
		OwnerUserID: ownerID,
		ActorUserID: &viewer.ID,
		ActorName:   viewer.Name,
		Action:      audit.ActionProfileView,
		Details: map[string]any{
			"access_level": string(grant.Level),
		},
		RelationshipID: grant.RelationshipID,
	})
}
