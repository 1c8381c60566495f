package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
	"github.com/shahinarahman616-del/HealthMate/pkg/pagination"
)

// DefaultListLimit matches the page size the activity feed renders.
const DefaultListLimit = 20

const recordTimeout = 5 * time.Second

// Caller identifies the authenticated user requesting the feed.
type Caller struct {
	ID    uuid.UUID
	Email string
}

// Service defines the audit surface used by controllers and other services.
type Service interface {
	Record(ctx context.Context, entry Entry)
	Append(ctx context.Context, entry Entry) error
	List(ctx context.Context, caller Caller, params pagination.Params) (*ListResponse, error)
}

// ListResponse carries one page of log rows plus the next cursor.
type ListResponse struct {
	Logs       []LogDTO `json:"logs"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

type repository interface {
	Append(ctx context.Context, entry Entry) (*models.FamilyAccessLog, error)
	ListForParticipant(ctx context.Context, userID uuid.UUID, email string, limit int, cursor *pagination.Cursor) ([]models.FamilyAccessLog, error)
}

// userDirectory resolves actor display names at read time.
type userDirectory interface {
	FindNamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type service struct {
	repo      repository
	directory userDirectory
	logg      *logger.Logger
}

// NewService constructs the audit service.
func NewService(repo repository, directory userDirectory, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("audit repository is required")
	}
	if directory == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	return &service{repo: repo, directory: directory, logg: logg}, nil
}

// Record writes the entry without blocking the caller. Failures are logged
// and swallowed; audit writes never fail the triggering operation.
func (s *service) Record(ctx context.Context, entry Entry) {
	fields := map[string]any{
		"owner_user_id": entry.OwnerUserID.String(),
		"action":        entry.Action,
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		writeCtx, cancel := context.WithTimeout(detached, recordTimeout)
		defer cancel()
		if _, err := s.repo.Append(writeCtx, entry); err != nil && s.logg != nil {
			fields["error"] = err.Error()
			s.logg.Warn(s.logg.WithFields(writeCtx, fields), "audit write failed")
		}
	}()
}

// Append writes the entry synchronously, surfacing the error.
func (s *service) Append(ctx context.Context, entry Entry) error {
	if _, err := s.repo.Append(ctx, entry); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "append audit log")
	}
	return nil
}

// List returns the activity feed for relationships involving the caller.
// Actor names are resolved through the user directory at read time and
// normalized to "You" when the actor is the caller; the stored name is the
// fallback for actors that no longer resolve.
func (s *service) List(ctx context.Context, caller Caller, params pagination.Params) (*ListResponse, error) {
	if caller.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = pagination.NormalizeLimit(limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListForParticipant(ctx, caller.ID, caller.Email, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list access log")
	}

	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	names := s.resolveActorNames(ctx, rows)

	logs := make([]LogDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		switch {
		case dto.ActorUserID != nil && *dto.ActorUserID == caller.ID:
			dto.ActorName = SelfActorLabel
		case dto.ActorUserID != nil:
			if name, ok := names[*dto.ActorUserID]; ok && name != "" {
				dto.ActorName = name
			}
		}
		logs = append(logs, *dto)
	}

	return &ListResponse{Logs: logs, NextCursor: nextCursor}, nil
}

func (s *service) resolveActorNames(ctx context.Context, rows []models.FamilyAccessLog) map[uuid.UUID]string {
	seen := map[uuid.UUID]struct{}{}
	ids := make([]uuid.UUID, 0, len(rows))
	for i := range rows {
		actor := rows[i].ActorUserID
		if actor == nil {
			continue
		}
		if _, ok := seen[*actor]; ok {
			continue
		}
		seen[*actor] = struct{}{}
		ids = append(ids, *actor)
	}
	if len(ids) == 0 {
		return nil
	}

	names, err := s.directory.FindNamesByIDs(ctx, ids)
	if err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, "resolving actor names failed, falling back to stored names")
		}
		return nil
	}
	return names
}
