package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestUser_HasRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		roles []string
		role  string
		want  bool
	}{
		{"admin has admin", []string{RoleUser, RoleAdmin}, RoleAdmin, true},
		{"user lacks admin", []string{RoleUser}, RoleAdmin, false},
		{"no roles", nil, RoleUser, false},
		{"case sensitive", []string{"Admin"}, RoleAdmin, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := &User{ID: "u1", Roles: tt.roles}
			if got := u.HasRole(tt.role); got != tt.want {
				t.Errorf("HasRole(%q) = %v, want %v", tt.role, got, tt.want)
			}
		})
	}
}

func TestUser_PasswordHashNotSerialized(t *testing.T) {
	t.Parallel()

	u := &User{
		ID:           "u1",
		Email:        "a@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
	}

	data, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	if strings.Contains(string(data), "argon2id") {
		t.Errorf("password hash leaked into JSON: %s", data)
	}
}

func TestUser_ToSessionUser(t *testing.T) {
	t.Parallel()

	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	expires := created.Add(24 * time.Hour)
	u := &User{ID: "u1", Email: "a@example.com", CreatedAt: created}

	su := u.ToSessionUser("sess-1", expires)

	if su.ID != "u1" || su.Email != "a@example.com" {
		t.Errorf("unexpected identity: %+v", su)
	}
	if su.SessionID != "sess-1" {
		t.Errorf("SessionID = %q, want sess-1", su.SessionID)
	}
	if !su.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt = %v, want %v", su.ExpiresAt, expires)
	}
}
