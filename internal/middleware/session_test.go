package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rolegate/rolegate/internal/auth"
	"github.com/rolegate/rolegate/internal/model"
)

func testUser() *model.User {
	return &model.User{
		ID:        "01HTUSER000000000000000000",
		Email:     "ada@example.com",
		Roles:     []string{model.RoleUser},
		CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

// captureUser runs the session middleware and returns the user the next handler saw.
func captureUser(t *testing.T, cfg SessionConfig, req *http.Request) *model.SessionUser {
	t.Helper()

	var got *model.SessionUser
	called := false
	handler := Session(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		got = auth.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("session middleware did not call next handler")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	return got
}

func TestSession_ResolvesUser(t *testing.T) {
	t.Parallel()

	sessions := newTestSessionManager(t)
	user := testUser()
	token, claims, err := sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name  string
		setup func(r *http.Request)
	}{
		{"cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
		}},
		{"bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := SessionConfig{
				Logger:     discardLogger(),
				CookieName: testCookieName,
				Verifier:   sessions,
				Revocation: &fakeRevocation{},
				Users:      &fakeUsers{users: map[string]*model.User{user.ID: user}},
			}

			req := httptest.NewRequest("GET", "/api/admin/check", nil)
			tt.setup(req)

			got := captureUser(t, cfg, req)
			if got == nil {
				t.Fatal("expected session user in context")
			}
			if got.ID != user.ID || got.Email != user.Email {
				t.Errorf("user = %+v, want id %s email %s", got, user.ID, user.Email)
			}
			if got.SessionID != claims.SessionID() {
				t.Errorf("SessionID = %q, want %q", got.SessionID, claims.SessionID())
			}
		})
	}
}

func TestSession_AnonymousOutcomes(t *testing.T) {
	t.Parallel()

	sessions := newTestSessionManager(t)
	user := testUser()
	token, claims, err := sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	tests := []struct {
		name       string
		token      string
		revocation *fakeRevocation
		users      *fakeUsers
	}{
		{
			name:       "no credentials",
			revocation: &fakeRevocation{},
			users:      &fakeUsers{},
		},
		{
			name:       "garbage token",
			token:      "not-a-token",
			revocation: &fakeRevocation{},
			users:      &fakeUsers{users: map[string]*model.User{user.ID: user}},
		},
		{
			name:       "revoked session",
			token:      token,
			revocation: &fakeRevocation{revoked: map[string]bool{claims.SessionID(): true}},
			users:      &fakeUsers{users: map[string]*model.User{user.ID: user}},
		},
		{
			name:       "revocation store down",
			token:      token,
			revocation: &fakeRevocation{err: errors.New("redis down")},
			users:      &fakeUsers{users: map[string]*model.User{user.ID: user}},
		},
		{
			name:       "deleted user",
			token:      token,
			revocation: &fakeRevocation{},
			users:      &fakeUsers{users: map[string]*model.User{}},
		},
		{
			name:       "user store down",
			token:      token,
			revocation: &fakeRevocation{},
			users:      &fakeUsers{err: errors.New("connection refused")},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := SessionConfig{
				Logger:     discardLogger(),
				CookieName: testCookieName,
				Verifier:   sessions,
				Revocation: tt.revocation,
				Users:      tt.users,
			}

			req := httptest.NewRequest("GET", "/api/admin/check", nil)
			if tt.token != "" {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: tt.token})
			}

			if got := captureUser(t, cfg, req); got != nil {
				t.Errorf("expected anonymous request, got user %+v", got)
			}
		})
	}
}

func TestSession_UsesCache(t *testing.T) {
	t.Parallel()

	sessions := newTestSessionManager(t)
	user := testUser()
	token, _, err := sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	users := &fakeUsers{users: map[string]*model.User{user.ID: user}}
	userCache := &fakeUserCache{}
	cfg := SessionConfig{
		Logger:     discardLogger(),
		CookieName: testCookieName,
		Verifier:   sessions,
		Revocation: &fakeRevocation{},
		Users:      users,
		Cache:      userCache,
	}

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
		if got := captureUser(t, cfg, req); got == nil || got.ID != user.ID {
			t.Fatalf("request %d: user = %+v, want %s", i, got, user.ID)
		}
	}

	if users.calls != 1 {
		t.Errorf("repository calls = %d, want 1", users.calls)
	}
	if userCache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", userCache.sets)
	}
}

func TestSession_DeletedUserServedFromCacheUntilExpiry(t *testing.T) {
	t.Parallel()

	sessions := newTestSessionManager(t)
	user := testUser()
	token, _, err := sessions.Issue(user.ID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	users := &fakeUsers{users: map[string]*model.User{}}
	userCache := &fakeUserCache{users: map[string]*model.User{user.ID: user}}
	cfg := SessionConfig{
		Logger:     discardLogger(),
		CookieName: testCookieName,
		Verifier:   sessions,
		Revocation: &fakeRevocation{},
		Users:      users,
		Cache:      userCache,
	}

	newReq := func() *http.Request {
		req := httptest.NewRequest("GET", "/api/admin/check", nil)
		req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
		return req
	}

	// The cache entry outlives the row until its TTL lapses.
	if got := captureUser(t, cfg, newReq()); got == nil || got.ID != user.ID {
		t.Fatalf("cached user = %+v, want %s", got, user.ID)
	}
	if users.calls != 0 {
		t.Errorf("repository calls = %d, want 0", users.calls)
	}

	delete(userCache.users, user.ID)

	if got := captureUser(t, cfg, newReq()); got != nil {
		t.Errorf("user after cache expiry = %+v, want anonymous", got)
	}
	if users.calls != 1 {
		t.Errorf("repository calls = %d, want 1", users.calls)
	}
}

func TestExtractSessionToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		cookie string
		header string
		want   string
	}{
		{"none", "", "", ""},
		{"cookie only", "cookie-token", "", "cookie-token"},
		{"bearer only", "", "Bearer header-token", "header-token"},
		{"cookie wins", "cookie-token", "Bearer header-token", "cookie-token"},
		{"basic auth ignored", "", "Basic dXNlcjpwYXNz", ""},
		{"bearer lowercase ignored", "", "bearer header-token", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: testCookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			if got := ExtractSessionToken(req, testCookieName); got != tt.want {
				t.Errorf("ExtractSessionToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	t.Parallel()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RequireSession()(next)

	t.Run("anonymous", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/auth/me", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("signed in", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest("GET", "/api/auth/me", nil)
		req = req.WithContext(auth.ContextWithUser(req.Context(), &model.SessionUser{ID: "u1"}))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
		}
	})
}
