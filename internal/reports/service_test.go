package reports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shahinarahman616-del/HealthMate/pkg/config"
	"github.com/shahinarahman616-del/HealthMate/pkg/db/models"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/storage/gcs"
)

type stubRepo struct {
	createFn    func(ctx context.Context, report *models.Report) error
	findOwnedFn func(ctx context.Context, id, userID uuid.UUID) (*models.Report, error)
	listFn      func(ctx context.Context, userID uuid.UUID) ([]models.Report, error)
	deleteFn    func(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

func (s *stubRepo) Create(ctx context.Context, report *models.Report) error {
	return s.createFn(ctx, report)
}

func (s *stubRepo) FindOwned(ctx context.Context, id, userID uuid.UUID) (*models.Report, error) {
	return s.findOwnedFn(ctx, id, userID)
}

func (s *stubRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Report, error) {
	return s.listFn(ctx, userID)
}

func (s *stubRepo) Delete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	return s.deleteFn(ctx, id, userID)
}

type stubStore struct {
	signFn    func(method, object, contentType string, ttl time.Duration) (string, error)
	deleted   []string
	deleteErr error
}

func (s *stubStore) SignedURL(method, object, contentType string, ttl time.Duration) (string, error) {
	if s.signFn != nil {
		return s.signFn(method, object, contentType, ttl)
	}
	return "https://storage.example.com/" + object, nil
}

func (s *stubStore) DeleteObject(_ context.Context, object string) error {
	s.deleted = append(s.deleted, object)
	return s.deleteErr
}

func testConfig() config.ReportsConfig {
	return config.ReportsConfig{UploadTTL: 15 * time.Minute, MaxUploadBytes: 1 << 20}
}

func newTestService(t *testing.T, repo *stubRepo, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo, Store: store, Config: testConfig()})
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestPresignRejectsContentType(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubStore{})

	_, err := svc.Presign(context.Background(), uuid.New(), PresignRequest{
		FileName:    "report.exe",
		ContentType: "application/octet-stream",
		SizeBytes:   100,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPresignRejectsOversizedFile(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubStore{})

	_, err := svc.Presign(context.Background(), uuid.New(), PresignRequest{
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		SizeBytes:   (1 << 20) + 1,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPresignScopesObjectToUser(t *testing.T) {
	userID := uuid.New()
	svc := newTestService(t, &stubRepo{}, &stubStore{})

	resp, err := svc.Presign(context.Background(), userID, PresignRequest{
		FileName:    "blood test.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
	})
	if err != nil {
		t.Fatalf("Presign returned error: %v", err)
	}
	prefix := "reports/" + userID.String() + "/"
	if !strings.HasPrefix(resp.ObjectPath, prefix) {
		t.Fatalf("expected object under %q, got %q", prefix, resp.ObjectPath)
	}
	if strings.Contains(resp.ObjectPath, " ") {
		t.Fatalf("object path must not contain spaces, got %q", resp.ObjectPath)
	}
	if resp.UploadURL == "" {
		t.Fatalf("expected upload url")
	}
}

func TestPresignSigningUnavailable(t *testing.T) {
	store := &stubStore{
		signFn: func(string, string, string, time.Duration) (string, error) {
			return "", gcs.ErrSigningUnavailable
		},
	}
	svc := newTestService(t, &stubRepo{}, store)

	_, err := svc.Presign(context.Background(), uuid.New(), PresignRequest{
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreateRejectsForeignObjectPath(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubStore{})

	_, err := svc.Create(context.Background(), uuid.New(), CreateRequest{
		Title:       "X-Ray",
		ReportType:  "imaging",
		ObjectPath:  "reports/" + uuid.NewString() + "/file.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
	})
	if pkgerrors.CodeOf(err) != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePersistsRow(t *testing.T) {
	userID := uuid.New()
	var created *models.Report
	repo := &stubRepo{
		createFn: func(_ context.Context, report *models.Report) error {
			report.ID = uuid.New()
			created = report
			return nil
		},
	}
	svc := newTestService(t, repo, &stubStore{})

	dto, err := svc.Create(context.Background(), userID, CreateRequest{
		Title:       "  X-Ray  ",
		ReportType:  "imaging",
		ObjectPath:  "reports/" + userID.String() + "/abc-file.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Title != "X-Ray" {
		t.Fatalf("expected trimmed title, got %q", created.Title)
	}
	if dto.DownloadURL == "" {
		t.Fatalf("expected download url on response")
	}
}

func TestDeleteRemovesRowAndObject(t *testing.T) {
	userID := uuid.New()
	reportID := uuid.New()
	object := "reports/" + userID.String() + "/abc-file.pdf"
	repo := &stubRepo{
		findOwnedFn: func(_ context.Context, id, owner uuid.UUID) (*models.Report, error) {
			if id != reportID || owner != userID {
				t.Fatalf("unexpected lookup args: %v %v", id, owner)
			}
			return &models.Report{ID: reportID, UserID: userID, ObjectPath: object}, nil
		},
		deleteFn: func(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
			return 1, nil
		},
	}
	store := &stubStore{}
	svc := newTestService(t, repo, store)

	if err := svc.Delete(context.Background(), userID, reportID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != object {
		t.Fatalf("expected object delete, got %v", store.deleted)
	}
}

func TestDeleteNotFound(t *testing.T) {
	repo := &stubRepo{
		findOwnedFn: func(context.Context, uuid.UUID, uuid.UUID) (*models.Report, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo, &stubStore{})

	err := svc.Delete(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.CodeOf(err) != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
