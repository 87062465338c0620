package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email, username or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrGoogleAccountLinked = errors.New("no account is registered for this Google email")
	ErrSessionRequired     = errors.New("authentication required")
)
