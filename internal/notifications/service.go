package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
	"github.com/shahinarahman616-del/HealthMate/pkg/pagination"
)

const pushTimeout = 5 * time.Second

// Service defines the notification surface used by controllers and by the
// services that push notifications as a side effect.
type Service interface {
	Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string)
	List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResponse, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

// ListResponse carries one page of notifications plus the unread count.
type ListResponse struct {
	Notifications []NotificationDTO `json:"notifications"`
	UnreadCount   int64             `json:"unread_count"`
	NextCursor    string            `json:"next_cursor,omitempty"`
}

type repository interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID, at time.Time) (int64, error)
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo repository
	logg *logger.Logger
}

// NewService constructs the notification service.
func NewService(repo repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Push writes the notification without blocking the caller. Delivery is
// best effort; failures are logged and swallowed.
func (s *service) Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) {
	if userID == uuid.Nil || !kind.IsValid() {
		return
	}
	fields := map[string]any{
		"user_id": userID.String(),
		"type":    string(kind),
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		writeCtx, cancel := context.WithTimeout(detached, pushTimeout)
		defer cancel()
		n := &models.Notification{
			UserID:  userID,
			Type:    kind,
			Title:   title,
			Message: message,
		}
		if err := s.repo.Create(writeCtx, n); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithFields(writeCtx, fields), "notification write failed")
		}
	}()
}

// List returns one page of the user's notifications, newest first.
func (s *service) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ListResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	rows, err := s.repo.ListByUser(ctx, userID, limit+1, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list notifications")
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

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unread notifications")
	}

	out := make([]NotificationDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return &ListResponse{Notifications: out, UnreadCount: unread, NextCursor: nextCursor}, nil
}

// MarkRead stamps a single notification as read.
func (s *service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	affected, err := s.repo.MarkRead(ctx, notificationID, userID, time.Now().UTC())
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notification read")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
	}
	return nil
}

// MarkAllRead stamps every unread notification and reports how many.
func (s *service) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	affected, err := s.repo.MarkAllRead(ctx, userID, time.Now().UTC())
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark notifications read")
	}
	return affected, nil
}
