package auth

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

// Session is the authenticated caller of one request. Role and department are
// read from the users table, not from token claims.
type Session struct {
	access.Actor
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

type sessionKey struct{}

func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}
