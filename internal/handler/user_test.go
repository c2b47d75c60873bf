package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tasklane/tasklane/internal/handler/dto"
	"github.com/tasklane/tasklane/internal/model"
)

type stubUserLister struct {
	users []*model.User
	err   error
}

func (s *stubUserLister) ListUsers(ctx context.Context) ([]*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.users, nil
}

func TestUserHandler_List(t *testing.T) {
	t.Parallel()

	lister := &stubUserLister{users: []*model.User{
		{UID: "alice", Name: "Alice", Email: "alice@example.com", AvatarURL: "https://a.example.com/alice"},
		{UID: "bob", Name: "Bob", Email: "bob@example.com"},
	}}
	h := NewUserHandler(lister, discardLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var users []dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("len = %d, want 2", len(users))
	}
	if users[0].UID != "alice" || users[0].Name != "Alice" {
		t.Errorf("users[0] = %+v", users[0])
	}
	if users[0].AvatarURL != "https://a.example.com/alice" {
		t.Errorf("avatarUrl = %q", users[0].AvatarURL)
	}
	for _, u := range users {
		if u.Email != "" {
			t.Errorf("user %s: email exposed without includeEmail", u.UID)
		}
	}
}

func TestUserHandler_List_IncludeEmail(t *testing.T) {
	t.Parallel()

	lister := &stubUserLister{users: []*model.User{
		{UID: "alice", Name: "Alice", Email: "alice@example.com"},
	}}
	h := NewUserHandler(lister, discardLogger(), true)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	var users []dto.UserResponse
	if err := json.NewDecoder(rec.Body).Decode(&users); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(users) != 1 || users[0].Email != "alice@example.com" {
		t.Errorf("users = %+v, want email included", users)
	}
}

func TestUserHandler_List_StoreError(t *testing.T) {
	t.Parallel()

	h := NewUserHandler(&stubUserLister{err: errors.New("db down")}, discardLogger(), false)

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Failed to fetch users.") {
		t.Errorf("body = %q", body)
	}
}
