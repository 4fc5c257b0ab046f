package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/rolegate/rolegate/internal/auth"
	"github.com/rolegate/rolegate/internal/middleware"
	"github.com/rolegate/rolegate/internal/model"
	"github.com/rolegate/rolegate/internal/repository"
)

type output struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Roles   []string `json:"roles"`
	Created bool     `json:"created"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "admin@rolegate.local", "User email")
		password    = flag.String("password", os.Getenv("BOOTSTRAP_PASSWORD"), "User password (or BOOTSTRAP_PASSWORD)")
		rolesInput  = flag.String("roles", "user,admin", "Comma-separated roles (user,admin)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if err := middleware.ValidateEmail(*email); err != nil {
		fmt.Fprintln(os.Stderr, "email:", err)
		os.Exit(1)
	}

	roles, err := parseRoles(*rolesInput)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}

	out, err := ensureUser(ctx, repo, *email, *password, roles)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	switch strings.ToLower(*format) {
	case "plain":
		fmt.Println(out.UserID)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

func parseRoles(input string) ([]string, error) {
	parts := strings.Split(input, ",")
	roles := make([]string, 0, len(parts))
	for _, part := range parts {
		role := strings.TrimSpace(part)
		if role == "" {
			continue
		}
		if !slices.Contains(model.ValidRoles, role) {
			return nil, fmt.Errorf("invalid role: %s", role)
		}
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}
	return roles, nil
}

// ensureUser creates the user, or updates roles of an existing one.
func ensureUser(ctx context.Context, repo *repository.Repository, email, password string, roles []string) (*output, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if err := repo.SetRoles(ctx, existing.ID, roles); err != nil {
			return nil, fmt.Errorf("set roles: %w", err)
		}
		if password != "" {
			hash, err := auth.HashPassword(password)
			if err != nil {
				return nil, fmt.Errorf("hash password: %w", err)
			}
			if err := repo.UpdatePasswordHash(ctx, existing.ID, hash); err != nil {
				return nil, fmt.Errorf("update password: %w", err)
			}
		}
		return &output{UserID: existing.ID, Email: existing.Email, Roles: roles}, nil
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := middleware.ValidatePassword(password); err != nil {
		return nil, fmt.Errorf("password: %w", err)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    time.Now().UTC(),
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &output{UserID: user.ID, Email: user.Email, Roles: roles, Created: true}, nil
}
