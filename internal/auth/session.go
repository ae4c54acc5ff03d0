package auth

import (
	"context"
	"errors"
	"time"

	"immo/backend/internal/models"

	"github.com/google/uuid"
)

// ErrNotAuthenticated is returned when an operation needs a session and none is present.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the authenticated caller. It is rebuilt from the profile row on
// every request, so role and snapshot fields are never stale.
type Session struct {
	UserID    uuid.UUID
	Name      string
	Email     string
	Role      models.Role
	Photo     *string
	TokenID   uuid.UUID
	ExpiresAt time.Time
}

func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == models.RoleAdmin
}

// NewSession builds a session from a profile row.
func NewSession(p models.Profile) *Session {
	return &Session{
		UserID: p.ID,
		Name:   p.Nom,
		Email:  p.Email,
		Role:   p.Role,
		Photo:  p.PhotoProfil,
	}
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the session stored on ctx, if any.
func SessionFrom(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}

// RequireSession is SessionFrom that fails with ErrNotAuthenticated.
func RequireSession(ctx context.Context) (*Session, error) {
	s, ok := SessionFrom(ctx)
	if !ok {
		return nil, ErrNotAuthenticated
	}
	return s, nil
}
