package auth

import (
	"context"
	"time"
)

// RefreshTokenRepository persists refresh tokens by hash.
type RefreshTokenRepository interface {
	CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt int64, sessionReq SessionTrackingRequest) error
	IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID int64) error
	// DeleteExpired removes tokens expired or revoked before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
