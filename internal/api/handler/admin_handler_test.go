package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/chatstack/chat-api/internal/core/domain"
)

type stubUserService struct {
	registerFn func(ctx context.Context, username, password, role string) (*domain.User, error)
	deleteFn   func(ctx context.Context, username string) error
	statsFn    func(ctx context.Context) ([]domain.UserStats, error)
}

func (s *stubUserService) Register(ctx context.Context, username, password, role string) (*domain.User, error) {
	return s.registerFn(ctx, username, password, role)
}

func (s *stubUserService) Delete(ctx context.Context, username string) error {
	return s.deleteFn(ctx, username)
}

func (s *stubUserService) Statistics(ctx context.Context) ([]domain.UserStats, error) {
	return s.statsFn(ctx)
}

type stubAuditRepo struct {
	insertFn func(ctx context.Context, entry *domain.AuditEntry) error
	listFn   func(ctx context.Context, limit int64) ([]*domain.AuditEntry, error)
}

func (r *stubAuditRepo) Insert(ctx context.Context, entry *domain.AuditEntry) error {
	return r.insertFn(ctx, entry)
}

func (r *stubAuditRepo) ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEntry, error) {
	return r.listFn(ctx, limit)
}

func TestAdminHandler_RegisterUser_Created(t *testing.T) {
	svc := &stubUserService{
		registerFn: func(_ context.Context, username, password, role string) (*domain.User, error) {
			if username != "newbie" || password != "longenough" || role != "user" {
				t.Fatalf("unexpected args: %s/%s/%s", username, password, role)
			}
			return &domain.User{ID: "u007", Username: username, Role: domain.RoleUser, CreatedAt: time.Now().UTC()}, nil
		},
	}
	h := NewAdminHandler(svc, &stubAuditRepo{})

	c, rec := newTestContext(t, http.MethodPost, "/admin/users", `{"username":"newbie","password":"longenough","role":"user"}`)
	if err := h.RegisterUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp userResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "u007" || resp.Username != "newbie" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAdminHandler_RegisterUser_Validation(t *testing.T) {
	h := NewAdminHandler(&stubUserService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}, &stubAuditRepo{})

	cases := []struct {
		name string
		body string
	}{
		{"short password", `{"username":"newbie","password":"short"}`},
		{"missing username", `{"password":"longenough"}`},
		{"unknown role", `{"username":"newbie","password":"longenough","role":"root"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodPost, "/admin/users", tc.body)
			err := h.RegisterUser(c)
			he, ok := err.(*echo.HTTPError)
			if !ok || he.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %v", err)
			}
		})
	}
}

func TestAdminHandler_RegisterUser_Duplicate(t *testing.T) {
	h := NewAdminHandler(&stubUserService{
		registerFn: func(context.Context, string, string, string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}, &stubAuditRepo{})

	c, _ := newTestContext(t, http.MethodPost, "/admin/users", `{"username":"newbie","password":"longenough"}`)
	if err := h.RegisterUser(c); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAdminHandler_DeleteUser(t *testing.T) {
	var deleted string
	h := NewAdminHandler(&stubUserService{
		deleteFn: func(_ context.Context, username string) error {
			deleted = username
			return nil
		},
	}, &stubAuditRepo{})

	c, rec := newTestContext(t, http.MethodDelete, "/admin/users/alice", "")
	c.SetParamNames("username")
	c.SetParamValues("alice")

	if err := h.DeleteUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "alice" {
		t.Fatalf("expected delete of alice, got %q", deleted)
	}
}

func TestAdminHandler_DeleteUser_ServiceErrors(t *testing.T) {
	for _, want := range []error{domain.ErrUserNotFound, domain.ErrCannotDeleteAnonymous} {
		h := NewAdminHandler(&stubUserService{
			deleteFn: func(context.Context, string) error { return want },
		}, &stubAuditRepo{})

		c, _ := newTestContext(t, http.MethodDelete, "/admin/users/x", "")
		c.SetParamNames("username")
		c.SetParamValues("x")

		if err := h.DeleteUser(c); err != want {
			t.Fatalf("expected %v, got %v", want, err)
		}
	}
}

func TestAdminHandler_Stats(t *testing.T) {
	first := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	last := first.Add(2 * time.Hour)
	h := NewAdminHandler(&stubUserService{
		statsFn: func(context.Context) ([]domain.UserStats, error) {
			return []domain.UserStats{
				{Username: "alice", MessageCount: 3, FirstMessageAt: &first, LastMessageAt: &last, AverageContentLength: 7.5, LastMessageContent: "bye"},
				{Username: "quiet", MessageCount: 0},
			}, nil
		},
	}, &stubAuditRepo{})

	c, rec := newTestContext(t, http.MethodGet, "/admin/stats", "")
	if err := h.Stats(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []userStatsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(resp))
	}
	if resp[0].Username != "alice" || resp[0].MessageCount != 3 || resp[0].LastMessageContent != "bye" {
		t.Fatalf("unexpected first entry: %+v", resp[0])
	}
	if resp[1].FirstMessageAt != nil || resp[1].LastMessageAt != nil {
		t.Fatalf("zero-message user must have null timestamps: %+v", resp[1])
	}
}

func TestAdminHandler_Audit_DefaultLimit(t *testing.T) {
	var gotLimit int64
	h := NewAdminHandler(&stubUserService{}, &stubAuditRepo{
		listFn: func(_ context.Context, limit int64) ([]*domain.AuditEntry, error) {
			gotLimit = limit
			return []*domain.AuditEntry{
				{Action: domain.AuditLogin, Actor: "alice", Timestamp: time.Now().UTC()},
			}, nil
		},
	})

	c, rec := newTestContext(t, http.MethodGet, "/admin/audit", "")
	if err := h.Audit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotLimit != defaultAuditLimit {
		t.Fatalf("expected default limit %d, got %d", defaultAuditLimit, gotLimit)
	}

	var resp []auditEntryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp) != 1 || resp[0].Action != domain.AuditLogin || resp[0].Actor != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAdminHandler_Audit_CustomLimit(t *testing.T) {
	var gotLimit int64
	h := NewAdminHandler(&stubUserService{}, &stubAuditRepo{
		listFn: func(_ context.Context, limit int64) ([]*domain.AuditEntry, error) {
			gotLimit = limit
			return nil, nil
		},
	})

	c, _ := newTestContext(t, http.MethodGet, "/admin/audit?limit=7", "")
	if err := h.Audit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if gotLimit != 7 {
		t.Fatalf("expected limit 7, got %d", gotLimit)
	}
}

func TestAdminHandler_Audit_BadLimit(t *testing.T) {
	h := NewAdminHandler(&stubUserService{}, &stubAuditRepo{
		listFn: func(context.Context, int64) ([]*domain.AuditEntry, error) {
			t.Fatalf("repository should not be called")
			return nil, nil
		},
	})

	for _, raw := range []string{"0", "-3", "abc"} {
		c, _ := newTestContext(t, http.MethodGet, "/admin/audit?limit="+raw, "")
		err := h.Audit(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for limit=%s, got %v", raw, err)
		}
	}
}
