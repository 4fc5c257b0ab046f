package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

// SessionIssuer is the "iss" claim of every session token.
const SessionIssuer = "rolegate"

// MinSessionSecretLen is the minimum HMAC secret length in bytes.
const MinSessionSecretLen = 32

var (
	// ErrInvalidSession covers every reason a session token is rejected.
	ErrInvalidSession = errors.New("invalid session token")
	// ErrWeakSecret indicates the signing secret is too short.
	ErrWeakSecret = errors.New("session secret too short")
)

// SessionClaims are the claims carried by a session token.
// Subject is the user ID and ID is the session ID.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// UserID returns the user the session belongs to.
func (c *SessionClaims) UserID() string {
	return c.Subject
}

// SessionID returns the unique session identifier.
func (c *SessionClaims) SessionID() string {
	return c.ID
}

// Expiry returns the session expiry time.
func (c *SessionClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// SessionManager issues and verifies HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionManager creates a SessionManager.
func NewSessionManager(secret []byte, ttl time.Duration) (*SessionManager, error) {
	if len(secret) < MinSessionSecretLen {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", ttl)
	}
	return &SessionManager{
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue creates a signed session token for userID.
func (m *SessionManager) Issue(userID string) (string, *SessionClaims, error) {
	if userID == "" {
		return "", nil, errors.New("issue session: empty user id")
	}

	now := m.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    SessionIssuer,
			Subject:   userID,
			ID:        ulid.Make().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session: %w", err)
	}

	return signed, claims, nil
}

// Parse verifies a session token and returns its claims.
// Any failure, including expiry, yields ErrInvalidSession.
func (m *SessionManager) Parse(token string) (*SessionClaims, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) {
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(SessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}

	if claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidSession
	}

	return claims, nil
}
