package reports

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/pkg/config"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/logger"
	"github.com/shahinarahman616-del/HealthMate/pkg/storage/gcs"
)

const downloadTTL = 10 * time.Minute

var allowedContentTypes = map[string]struct{}{
	"application/pdf": {},
	"image/jpeg":      {},
	"image/png":       {},
	"image/webp":      {},
}

// Service manages report metadata and the presigned object-storage flow.
type Service interface {
	Presign(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*ReportDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]ReportDTO, error)
	Delete(ctx context.Context, userID, reportID uuid.UUID) error
}

type repository interface {
	Create(ctx context.Context, report *models.Report) error
	FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Report, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

type objectStore interface {
	SignedURL(method, object, contentType string, ttl time.Duration) (string, error)
	DeleteObject(ctx context.Context, object string) error
}

// ServiceParams bundles the report service dependencies.
type ServiceParams struct {
	Repo   repository
	Store  objectStore
	Config config.ReportsConfig
	Logger *logger.Logger
}

type service struct {
	repo  repository
	store objectStore
	cfg   config.ReportsConfig
	logg  *logger.Logger
}

// NewService constructs the report service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("report repository is required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if params.Config.UploadTTL <= 0 {
		return nil, fmt.Errorf("upload ttl must be positive")
	}
	return &service{
		repo:  params.Repo,
		store: params.Store,
		cfg:   params.Config,
		logg:  params.Logger,
	}, nil
}

// Presign issues a short-lived upload URL under the caller's own prefix.
func (s *service) Presign(ctx context.Context, userID uuid.UUID, req PresignRequest) (*PresignResponse, error) {
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported content type")
	}
	if req.SizeBytes <= 0 || req.SizeBytes > s.cfg.MaxUploadBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("file size must be between 1 and %d bytes", s.cfg.MaxUploadBytes))
	}

	object := objectPath(userID, req.FileName)
	url, err := s.store.SignedURL(http.MethodPut, object, req.ContentType, s.cfg.UploadTTL)
	if err != nil {
		if errors.Is(err, gcs.ErrSigningUnavailable) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload signing unavailable")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign upload url")
	}

	return &PresignResponse{
		UploadURL:  url,
		ObjectPath: object,
		ExpiresAt:  time.Now().UTC().Add(s.cfg.UploadTTL),
	}, nil
}

// Create registers the metadata row after the client finished the upload.
// The object path must sit under the caller's prefix; anything else is a
// validation failure, not a lookup.
func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*ReportDTO, error) {
	if !strings.HasPrefix(req.ObjectPath, userPrefix(userID)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "object path does not belong to you")
	}
	if _, ok := allowedContentTypes[req.ContentType]; !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported content type")
	}

	report := &models.Report{
		UserID:      userID,
		Title:       strings.TrimSpace(req.Title),
		ReportType:  strings.TrimSpace(req.ReportType),
		ObjectPath:  req.ObjectPath,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
		ReportDate:  req.ReportDate,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create report")
	}

	dto := FromModel(report)
	s.attachDownloadURL(ctx, dto, report.ObjectPath)
	return dto, nil
}

// List returns the caller's reports with fresh download URLs.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ReportDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reports")
	}

	out := make([]ReportDTO, 0, len(rows))
	for i := range rows {
		dto := FromModel(&rows[i])
		s.attachDownloadURL(ctx, dto, rows[i].ObjectPath)
		out = append(out, *dto)
	}
	return out, nil
}

// Delete removes the metadata row and then the stored object. The object
// delete is best effort; an orphaned blob is preferable to a dangling row.
func (s *service) Delete(ctx context.Context, userID, reportID uuid.UUID) error {
	report, err := s.repo.FindOwned(ctx, reportID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "report not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load report")
	}

	affected, err := s.repo.Delete(ctx, reportID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete report")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "report not found")
	}

	if err := s.store.DeleteObject(ctx, report.ObjectPath); err != nil && s.logg != nil {
		s.logg.Warn(s.logg.WithField(ctx, "object_path", report.ObjectPath), "deleting report object failed")
	}
	return nil
}

func (s *service) attachDownloadURL(ctx context.Context, dto *ReportDTO, object string) {
	url, err := s.store.SignedURL(http.MethodGet, object, "", downloadTTL)
	if err != nil {
		if !errors.Is(err, gcs.ErrSigningUnavailable) && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "object_path", object), "signing download url failed")
		}
		return
	}
	dto.DownloadURL = url
}

func objectPath(userID uuid.UUID, fileName string) string {
	base := path.Base(strings.TrimSpace(fileName))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '-'
		}
	}, base)
	return fmt.Sprintf("%s%s-%s", userPrefix(userID), uuid.NewString(), base)
}

func userPrefix(userID uuid.UUID) string {
	return fmt.Sprintf("reports/%s/", userID)
}
