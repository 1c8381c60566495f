package access

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

type stubFinder struct {
	findFn func(ctx context.Context, ownerID, viewerID uuid.UUID, viewerEmail string) (*models.FamilyRelationship, error)
}

func (s *stubFinder) FindAcceptedBetween(ctx context.Context, ownerID, viewerID uuid.UUID, viewerEmail string) (*models.FamilyRelationship, error) {
	return s.findFn(ctx, ownerID, viewerID, viewerEmail)
}

type captureAudit struct {
	entries []audit.Entry
}

func (c *captureAudit) Record(_ context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

func newTestEvaluator(t *testing.T, finder *stubFinder, recorder *captureAudit) Evaluator {
	t.Helper()
	ev, err := NewEvaluator(EvaluatorParams{Relationships: finder, Audit: recorder})
	if err != nil {
		t.Fatalf("NewEvaluator returned error: %v", err)
	}
	return ev
}

func TestEvaluateSelfAccess(t *testing.T) {
	finder := &stubFinder{
		findFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*models.FamilyRelationship, error) {
			t.Fatalf("self access must not hit the repository")
			return nil, nil
		},
	}
	ev := newTestEvaluator(t, finder, &captureAudit{})

	userID := uuid.New()
	grant, err := ev.Evaluate(context.Background(), Viewer{ID: userID}, userID)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if !grant.Self || grant.RelationshipID != nil {
		t.Fatalf("expected self grant, got %+v", grant)
	}
}

func TestEvaluateAcceptedRelationship(t *testing.T) {
	relID := uuid.New()
	ownerID := uuid.New()
	viewerID := uuid.New()
	finder := &stubFinder{
		findFn: func(_ context.Context, owner, viewer uuid.UUID, email string) (*models.FamilyRelationship, error) {
			if owner != ownerID || viewer != viewerID || email != "sister@example.com" {
				t.Fatalf("unexpected lookup args: %v %v %q", owner, viewer, email)
			}
			return &models.FamilyRelationship{
				ID:          relID,
				OwnerUserID: ownerID,
				AccessLevel: enums.AccessLevelEmergency,
				Status:      enums.RelationshipStatusAccepted,
			}, nil
		},
	}
	ev := newTestEvaluator(t, finder, &captureAudit{})

	grant, err := ev.Evaluate(context.Background(), Viewer{ID: viewerID, Email: "sister@example.com"}, ownerID)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	if grant.Level != enums.AccessLevelEmergency {
		t.Fatalf("expected emergency level, got %q", grant.Level)
	}
	if grant.RelationshipID == nil || *grant.RelationshipID != relID {
		t.Fatalf("expected relationship id on grant, got %+v", grant)
	}
}

func TestEvaluateDenied(t *testing.T) {
	finder := &stubFinder{
		findFn: func(context.Context, uuid.UUID, uuid.UUID, string) (*models.FamilyRelationship, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	recorder := &captureAudit{}
	ev := newTestEvaluator(t, finder, recorder)

	_, err := ev.Evaluate(context.Background(), Viewer{ID: uuid.New()}, uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if len(recorder.entries) != 0 {
		t.Fatalf("denied access must not be audited, got %+v", recorder.entries)
	}
}

func TestRecordProfileView(t *testing.T) {
	relID := uuid.New()
	ownerID := uuid.New()
	viewerID := uuid.New()
	recorder := &captureAudit{}
	ev := newTestEvaluator(t, &stubFinder{}, recorder)

	grant := &Grant{Level: enums.AccessLevelViewOnly, RelationshipID: &relID}
	ev.RecordProfileView(context.Background(), Viewer{ID: viewerID, Name: "Sister"}, ownerID, grant)

	if len(recorder.entries) != 1 {
		t.Fatalf("expected one audit entry, got %d", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Action != audit.ActionProfileView || entry.OwnerUserID != ownerID {
		t.Fatalf("unexpected entry %+v", entry)
	}
	if entry.RelationshipID == nil || *entry.RelationshipID != relID {
		t.Fatalf("expected relationship id tag, got %+v", entry)
	}
}

func TestRecordProfileViewSkipsSelf(t *testing.T) {
	recorder := &captureAudit{}
	ev := newTestEvaluator(t, &stubFinder{}, recorder)

	ev.RecordProfileView(context.Background(), Viewer{ID: uuid.New()}, uuid.New(), &Grant{Self: true, Level: enums.AccessLevelManage})
	if len(recorder.entries) != 0 {
		t.Fatalf("self view must not be audited, got %+v", recorder.entries)
	}
}
