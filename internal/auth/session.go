package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"greenfield-library/internal/models"
)

// SessionCookie is the cookie name carrying the signed session token.
const SessionCookie = "session"

var ErrInvalidToken = errors.New("invalid session token")

// Session is the identity context of the current caller, decoded from the
// session token. Role is the sole authorization signal.
type Session struct {
	UserID uuid.UUID
	Role   models.UserRole
	Name   string
	Email  string
}

type sessionClaims struct {
	Role  models.UserRole `json:"role"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	jwt.RegisteredClaims
}

// Manager issues and verifies session tokens (HMAC-SHA256).
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// IssueToken creates a signed session token for the given user.
func (m *Manager) IssueToken(user *models.User) (string, error) {
	now := time.Now().UTC()
	claims := sessionClaims{
		Role:  user.Role,
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken verifies a raw token and returns the session it carries.
func (m *Manager) ParseToken(raw string) (*Session, error) {
	tok, err := jwt.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(*sessionClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return &Session{
		UserID: userID,
		Role:   claims.Role,
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}
