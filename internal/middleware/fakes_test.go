package middleware

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/rolegate/rolegate/internal/auth"
	"github.com/rolegate/rolegate/internal/cache"
	"github.com/rolegate/rolegate/internal/model"
	"github.com/rolegate/rolegate/internal/quota"
	"github.com/rolegate/rolegate/internal/repository"
)

const testCookieName = "rolegate_session"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	m, err := auth.NewSessionManager([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager() error = %v", err)
	}
	return m
}

type fakeRevocation struct {
	revoked map[string]bool
	err     error
}

func (f *fakeRevocation) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.revoked[sessionID], nil
}

type fakeUsers struct {
	mu    sync.Mutex
	users map[string]*model.User
	err   error
	calls int
}

func (f *fakeUsers) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

type fakeUserCache struct {
	users map[string]*model.User
	sets  int
}

func (f *fakeUserCache) GetSessionUser(ctx context.Context, userID string) (*model.User, error) {
	return f.users[userID], nil
}

func (f *fakeUserCache) SetSessionUser(ctx context.Context, user *model.User) error {
	if f.users == nil {
		f.users = make(map[string]*model.User)
	}
	f.users[user.ID] = user
	f.sets++
	return nil
}

type fakeAuthorizer struct {
	admins map[string]bool
	err    error
}

func (f *fakeAuthorizer) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.admins[userID], nil
}

type fakeQuota struct {
	mu       sync.Mutex
	decision quota.Decision
	err      error
	subjects []string
	records  int
}

func (f *fakeQuota) Check(ctx context.Context, subject string, cost int) (quota.Decision, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return f.decision, f.err
}

func (f *fakeQuota) Record(ctx context.Context, subject string, cost int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records++
	return nil
}

type fakeLimiter struct {
	result *cache.RateLimitResult
	err    error
	ips    []string
}

func (f *fakeLimiter) CheckLoginRateLimit(ctx context.Context, ip string, ratePerSecond, burst int) (*cache.RateLimitResult, error) {
	f.ips = append(f.ips, ip)
	return f.result, f.err
}
