package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tasklane/tasklane/internal/auth"
	"github.com/tasklane/tasklane/internal/identity"
	"github.com/tasklane/tasklane/internal/model"
)

type stubVerifier struct {
	identity *model.Identity
	err      error
	calls    int
}

func (s *stubVerifier) Verify(ctx context.Context, token string) (*model.Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.identity, nil
}

type stubUserStore struct {
	err   error
	users []*model.User
}

func (s *stubUserStore) EnsureUser(ctx context.Context, user *model.User) error {
	if s.err != nil {
		return s.err
	}
	s.users = append(s.users, user)
	return nil
}

type stubIdentityCache struct {
	entries map[string]*model.Identity
	sets    int
}

func newStubIdentityCache() *stubIdentityCache {
	return &stubIdentityCache{entries: make(map[string]*model.Identity)}
}

func (s *stubIdentityCache) GetIdentity(ctx context.Context, tokenHash string) (*model.Identity, error) {
	return s.entries[tokenHash], nil
}

func (s *stubIdentityCache) SetIdentity(ctx context.Context, tokenHash string, id *model.Identity) error {
	s.sets++
	s.entries[tokenHash] = id
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func authTestHandler(gotSubject *string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*gotSubject = auth.SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic abc123"},
		{"bare token", "sometoken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &stubVerifier{}
			mw := Auth(AuthConfig{
				Logger:   testLogger(),
				Verifier: verifier,
				Users:    &stubUserStore{},
				Cache:    newStubIdentityCache(),
			})

			var subject string
			req := httptest.NewRequest(http.MethodGet, "/todos", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			mw(authTestHandler(&subject)).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
			if body := rec.Body.String(); !strings.Contains(body, "Missing token") {
				t.Errorf("body = %q, want Missing token", body)
			}
			if verifier.calls != 0 {
				t.Error("verifier should not be called without a bearer token")
			}
			if subject != "" {
				t.Error("handler should not run")
			}
		})
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	mw := Auth(AuthConfig{
		Logger:   testLogger(),
		Verifier: &stubVerifier{err: identity.ErrInvalidToken},
		Users:    &stubUserStore{},
		Cache:    newStubIdentityCache(),
	})

	var subject string
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()
	mw(authTestHandler(&subject)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Invalid token") {
		t.Errorf("body = %q, want Invalid token", body)
	}
}

func TestAuth_Success(t *testing.T) {
	t.Parallel()

	id := &model.Identity{
		Subject:   "alice",
		Email:     "alice@example.com",
		Name:      "Alice",
		AvatarURL: "https://avatars.example.com/alice",
	}
	store := &stubUserStore{}
	cache := newStubIdentityCache()
	mw := Auth(AuthConfig{
		Logger:   testLogger(),
		Verifier: &stubVerifier{identity: id},
		Users:    store,
		Cache:    cache,
	})

	var subject string
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mw(authTestHandler(&subject)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if subject != "alice" {
		t.Errorf("context subject = %q, want alice", subject)
	}

	if len(store.users) != 1 {
		t.Fatalf("EnsureUser calls = %d, want 1", len(store.users))
	}
	user := store.users[0]
	if user.UID != "alice" || user.Email != "alice@example.com" || user.Name != "Alice" {
		t.Errorf("provisioned user = %+v", user)
	}

	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
}

func TestAuth_CacheHitSkipsVerifier(t *testing.T) {
	t.Parallel()

	id := &model.Identity{Subject: "alice"}
	verifier := &stubVerifier{identity: id}
	store := &stubUserStore{}
	cache := newStubIdentityCache()
	mw := Auth(AuthConfig{
		Logger:   testLogger(),
		Verifier: verifier,
		Users:    store,
		Cache:    cache,
	})

	var subject string
	handler := mw(authTestHandler(&subject))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/todos", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, rec.Code)
		}
		if subject != "alice" {
			t.Fatalf("request %d: subject = %q, want alice", i, subject)
		}
	}

	if verifier.calls != 1 {
		t.Errorf("verifier calls = %d, want 1 (later requests served from cache)", verifier.calls)
	}
	if len(store.users) != 1 {
		t.Errorf("EnsureUser calls = %d, want 1", len(store.users))
	}
}

func TestAuth_ProvisioningFailure(t *testing.T) {
	t.Parallel()

	cache := newStubIdentityCache()
	mw := Auth(AuthConfig{
		Logger:   testLogger(),
		Verifier: &stubVerifier{identity: &model.Identity{Subject: "alice"}},
		Users:    &stubUserStore{err: errors.New("db down")},
		Cache:    cache,
	})

	var subject string
	req := httptest.NewRequest(http.MethodGet, "/todos", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	mw(authTestHandler(&subject)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if subject != "" {
		t.Error("handler should not run when provisioning fails")
	}
	if cache.sets != 0 {
		t.Error("identity must not be cached when provisioning fails")
	}
}

func TestExtractBearerToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"valid", "Bearer abc123", "abc123"},
		{"empty header", "", ""},
		{"wrong scheme", "Basic abc123", ""},
		{"lowercase scheme", "bearer abc123", ""},
		{"empty token", "Bearer ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := extractBearerToken(req); got != tt.want {
				t.Errorf("extractBearerToken() = %q, want %q", got, tt.want)
			}
		})
	}
}
