package auth

import (
	"context"
)

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, sessionReq SessionTrackingRequest) (TokenResponse, error)
	// LoginWithGoogle signs in the existing user owning a verified Google email
	LoginWithGoogle(ctx context.Context, googleID string, email string, sessionReq SessionTrackingRequest) (TokenResponse, error)
	RefreshToken(ctx context.Context, req RefreshTokenRequest) (AccessTokenResponse, error)
	Logout(ctx context.Context, req LogoutRequest) error
	// Authenticate turns a verified access token into a Session
	Authenticate(ctx context.Context, userID int64, tokenID string, expiresAt int64) (Session, error)
	// EnsureInitialAdmin creates the bootstrap admin unless its email or username exists
	EnsureInitialAdmin(ctx context.Context, req InitialAdminRequest) (bool, error)
}
