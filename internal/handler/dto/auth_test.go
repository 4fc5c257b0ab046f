package dto

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rolegate/rolegate/internal/model"
)

func TestAdminCheckResponse_JSONShape(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   AdminCheckResponse
		want string
	}{
		{AdminCheckResponse{IsAdmin: false}, `{"isAdmin":false}`},
		{AdminCheckResponse{IsAdmin: true}, `{"isAdmin":true}`},
	}

	for _, tt := range tests {
		tt := tt
		data, err := json.Marshal(tt.in)
		if err != nil {
			t.Fatalf("marshal failed: %v", err)
		}
		if string(data) != tt.want {
			t.Errorf("got %s, want %s", data, tt.want)
		}
	}
}

func TestErrorResponse_JSONShape(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ErrorResponse{Error: ErrorDetail{Code: "INTERNAL_ERROR", Message: "internal server error"}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestUserFromModel_OmitsSecrets(t *testing.T) {
	t.Parallel()

	u := &model.User{
		ID:           "u1",
		Email:        "ada@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
		Roles:        []string{model.RoleAdmin},
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(UserFromModel(u))
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, forbidden := range []string{"argon2id", "roles", "admin"} {
		if strings.Contains(string(data), forbidden) {
			t.Errorf("user JSON %s contains %q", data, forbidden)
		}
	}
}
