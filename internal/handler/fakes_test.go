package handler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rolegate/rolegate/internal/model"
	"github.com/rolegate/rolegate/internal/repository"
)

type errString string

func (e errString) Error() string { return string(e) }

func contextDeadlineErr() error {
	return fmt.Errorf("check admin: %w", context.DeadlineExceeded)
}

func contextCanceledErr() error {
	return fmt.Errorf("check admin: %w", context.Canceled)
}

type fakeAuthorizer struct {
	admins map[string]bool
	err    error
	calls  []string
}

func (f *fakeAuthorizer) IsAdmin(ctx context.Context, userID string) (bool, error) {
	f.calls = append(f.calls, userID)
	if f.err != nil {
		return false, f.err
	}
	return f.admins[userID], nil
}

type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]*model.User
	err     error
	updated map[string]string
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	f.updated[userID] = hash
	return nil
}

type revokeCall struct {
	sessionID string
	expiresAt time.Time
}

type fakeRevoker struct {
	calls []revokeCall
	err   error
}

func (f *fakeRevoker) RevokeSession(ctx context.Context, sessionID string, expiresAt time.Time) error {
	f.calls = append(f.calls, revokeCall{sessionID: sessionID, expiresAt: expiresAt})
	return f.err
}

var errBoom = errors.New("boom")
