package emergency

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/internal/audit"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
)

// RequestTTL bounds how long a pending request stays actionable. The
// expiry is advisory; rows past it are simply ignored by the duplicate
// check and by clients.
const RequestTTL = 24 * time.Hour

const (
	targetNotFoundMessage   = "no account matches that email"
	duplicatePendingMessage = "a pending request for this user already exists"
	selfTargetMessage       = "you cannot request emergency access to your own records"
)

// Requester identifies the caller raising an emergency request.
type Requester struct {
	ID    uuid.UUID
	Email string
	Name  string
}

// Service defines emergency access behavior needed by controllers.
type Service interface {
	Request(ctx context.Context, requester Requester, req RequestDTO) (*AccessRequestDTO, error)
	ListMine(ctx context.Context, requesterID uuid.UUID) ([]AccessRequestDTO, error)
	ListAgainstMe(ctx context.Context, targetID uuid.UUID) ([]AccessRequestDTO, error)
}

type requestRepository interface {
	Create(ctx context.Context, req *models.EmergencyAccessRequest) error
	FindPendingBetween(ctx context.Context, requesterID, targetID uuid.UUID, now time.Time) (*models.EmergencyAccessRequest, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]models.EmergencyAccessRequest, error)
	ListByTarget(ctx context.Context, targetID uuid.UUID) ([]models.EmergencyAccessRequest, error)
}

type userDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry audit.Entry)
}

type notifier interface {
	Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string)
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo     requestRepository
	Users    userDirectory
	Audit    auditRecorder
	Notifier notifier
	Now      func() time.Time
}

type service struct {
	repo     requestRepository
	users    userDirectory
	audit    auditRecorder
	notifier notifier
	now      func() time.Time
}

// NewService constructs the emergency access service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("request repository is required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	if params.Audit == nil {
		return nil, fmt.Errorf("audit recorder is required")
	}
	if params.Now == nil {
		params.Now = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:     params.Repo,
		users:    params.Users,
		audit:    params.Audit,
		notifier: params.Notifier,
		now:      params.Now,
	}, nil
}

func (s *service) Request(ctx context.Context, requester Requester, req RequestDTO) (*AccessRequestDTO, error) {
	email := strings.ToLower(strings.TrimSpace(req.TargetEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "target email is required")
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "reason is required")
	}
	if email == strings.ToLower(strings.TrimSpace(requester.Email)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, selfTargetMessage)
	}

	target, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, targetNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve target")
	}

	now := s.now()
	if _, err := s.repo.FindPendingBetween(ctx, requester.ID, target.ID, now); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicatePendingMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check pending request")
	}

	row := &models.EmergencyAccessRequest{
		RequesterUserID: requester.ID,
		TargetUserID:    target.ID,
		Reason:          reason,
		Status:          enums.EmergencyRequestStatusPending,
		ExpiresAt:       now.Add(RequestTTL),
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create emergency request")
	}

	s.audit.Record(ctx, audit.Entry{
		OwnerUserID: target.ID,
		ActorUserID: &requester.ID,
		ActorName:   requester.Name,
		Action:      audit.ActionEmergencyRequested,
		Details: map[string]any{
			"reason":     reason,
			"expires_at": row.ExpiresAt.Format(time.RFC3339),
		},
	})

	if s.notifier != nil {
		s.notifier.Push(ctx, target.ID, enums.NotificationTypeEmergencyRequest,
			"Emergency access requested",
			fmt.Sprintf("%s requested emergency access to your records", requester.Name))
	}

	dto := ToDTO(row)
	dto.TargetName = target.FullName
	return dto, nil
}

func (s *service) ListMine(ctx context.Context, requesterID uuid.UUID) ([]AccessRequestDTO, error) {
	rows, err := s.repo.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list emergency requests")
	}
	return toDTOs(rows), nil
}

func (s *service) ListAgainstMe(ctx context.Context, targetID uuid.UUID) ([]AccessRequestDTO, error) {
	rows, err := s.repo.ListByTarget(ctx, targetID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list emergency requests")
	}
	return toDTOs(rows), nil
}

func toDTOs(rows []models.EmergencyAccessRequest) []AccessRequestDTO {
	out := make([]AccessRequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDTO(&rows[i]))
	}
	return out
}
