package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/shahinarahman616-del/HealthMate/internal/notifications"
	"github.com/shahinarahman616-del/HealthMate/pkg/enums"
	pkgerrors "github.com/shahinarahman616-del/HealthMate/pkg/errors"
	"github.com/shahinarahman616-del/HealthMate/pkg/pagination"
)

type testNotificationsService struct {
	listFn        func(ctx context.Context, userID uuid.UUID, params pagination.Params) (*notifications.ListResponse, error)
	markReadFn    func(ctx context.Context, userID, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, userID uuid.UUID) (int64, error)
}

func (s *testNotificationsService) Push(ctx context.Context, userID uuid.UUID, kind enums.NotificationType, title, message string) {
}

func (s *testNotificationsService) List(ctx context.Context, userID uuid.UUID, params pagination.Params) (*notifications.ListResponse, error) {
	if s.listFn != nil {
		return s.listFn(ctx, userID, params)
	}
	return &notifications.ListResponse{}, nil
}

func (s *testNotificationsService) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	if s.markReadFn != nil {
		return s.markReadFn(ctx, userID, notificationID)
	}
	return nil
}

func (s *testNotificationsService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	if s.markAllReadFn != nil {
		return s.markAllReadFn(ctx, userID)
	}
	return 0, nil
}

func TestNotificationsListPassesPagination(t *testing.T) {
	userID := uuid.New()
	svc := &testNotificationsService{
		listFn: func(ctx context.Context, uid uuid.UUID, params pagination.Params) (*notifications.ListResponse, error) {
			if uid != userID {
				t.Fatalf("unexpected user %s", uid)
			}
			if params.Limit != 10 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if params.Cursor != "abc" {
				t.Fatalf("unexpected cursor %q", params.Cursor)
			}
			return &notifications.ListResponse{UnreadCount: 3}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/notifications?limit=10&cursor=abc", nil, userID)
	resp := httptest.NewRecorder()
	NotificationsList(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data struct {
			UnreadCount int64 `json:"unread_count"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.UnreadCount != 3 {
		t.Fatalf("unexpected unread count %d", envelope.Data.UnreadCount)
	}
}

func TestNotificationsListRejectsBadLimit(t *testing.T) {
	req := authedRequest(http.MethodGet, "/api/v1/notifications?limit=zero", nil, uuid.New())
	resp := httptest.NewRecorder()
	NotificationsList(&testNotificationsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestNotificationsMarkReadNotFound(t *testing.T) {
	notificationID := uuid.New()
	svc := &testNotificationsService{
		markReadFn: func(ctx context.Context, userID, nid uuid.UUID) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "notification not found")
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/notifications/"+notificationID.String()+"/read", nil, uuid.New())
	req = addRouteParam(req, "notificationId", notificationID.String())
	resp := httptest.NewRecorder()
	NotificationsMarkRead(svc, testLogger())(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestNotificationsMarkAllReadReportsCount(t *testing.T) {
	svc := &testNotificationsService{
		markAllReadFn: func(ctx context.Context, userID uuid.UUID) (int64, error) {
			return 4, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/notifications/read-all", nil, uuid.New())
	resp := httptest.NewRecorder()
	NotificationsMarkAllRead(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data map[string]int64 `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data["updated"] != 4 {
		t.Fatalf("unexpected updated count %d", envelope.Data["updated"])
	}
}
