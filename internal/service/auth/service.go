package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx            database.Transactor
	users         user.UserRepository
	refreshTokens auth.RefreshTokenRepository
	jwtService    jwt.Service
	revocations   jwt.RevocationStore
}

var _ auth.AuthService = (*AuthServiceImpl)(nil)

func NewAuthService(
	tx database.Transactor,
	userRepository user.UserRepository,
	refreshTokenRepository auth.RefreshTokenRepository,
	jwtService jwt.Service,
	revocations jwt.RevocationStore,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		tx:            tx,
		users:         userRepository,
		refreshTokens: refreshTokenRepository,
		jwtService:    jwtService,
		revocations:   revocations,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, loginReq auth.LoginRequest, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var (
		userData user.User
		err      error
	)
	if strings.TrimSpace(loginReq.Email) != "" {
		userData, err = a.users.GetByEmail(ctx, strings.TrimSpace(loginReq.Email))
	} else {
		userData, err = a.users.GetByUsername(ctx, strings.TrimSpace(loginReq.Username))
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	// Google-only accounts have no password
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(loginReq.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return a.issueTokens(ctx, userData, sessionTrackReq)
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, googleID string, googleEmail string, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	userData, err := a.users.LinkGoogleAccount(ctx, googleID, googleEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.TokenResponse{}, auth.ErrGoogleAccountLinked
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
	}

	return a.issueTokens(ctx, userData, sessionTrackReq)
}

func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User, sessionTrackReq auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	accessToken, claims, err := a.jwtService.GenerateAccessToken(userData.ID, userData.Role)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	tokenResponse.AccessToken = accessToken
	tokenResponse.AccessTokenExpiresIn = claims.ExpiresAt

	tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.jwtService.GenerateRefreshToken(userData.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	err = a.refreshTokens.CreateRefreshToken(ctx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, sessionTrackReq)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to save refresh token to database: %w", err)
	}

	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	// 1. Verify signature, expiry and token type
	claims, err := a.jwtService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check DB for revocation/expiry (pass raw token, not hash)
	isRevoked, err := a.refreshTokens.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Reload the user so the new token carries the current role
	userData, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AccessTokenResponse{}, auth.ErrUserNotFound
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}

	accessToken, accessClaims, err := a.jwtService.GenerateAccessToken(userData.ID, userData.Role)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken:          accessToken,
		AccessTokenExpiresIn: accessClaims.ExpiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, req auth.LogoutRequest) error {
	if req.RefreshToken != "" {
		if err := a.refreshTokens.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	if req.Session.TokenID != "" {
		if err := a.revocations.Revoke(ctx, req.Session.TokenID, req.Session.ExpiresAt); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	}
	return nil
}

// Authenticate implements auth.AuthService.
func (a *AuthServiceImpl) Authenticate(ctx context.Context, userID int64, tokenID string, expiresAt int64) (auth.Session, error) {
	revoked, err := a.revocations.IsRevoked(ctx, tokenID)
	if err != nil {
		return auth.Session{}, fmt.Errorf("failed to check token revocation: %w", err)
	}
	if revoked {
		return auth.Session{}, auth.ErrTokenRevoked
	}

	userData, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.Session{}, auth.ErrUserNotFound
		}
		return auth.Session{}, fmt.Errorf("failed to get user: %w", err)
	}

	return auth.Session{
		Actor:     userData.Actor(),
		Username:  userData.Username,
		TokenID:   tokenID,
		ExpiresAt: time.Unix(expiresAt, 0),
	}, nil
}

// EnsureInitialAdmin implements auth.AuthService.
func (a *AuthServiceImpl) EnsureInitialAdmin(ctx context.Context, req auth.InitialAdminRequest) (bool, error) {
	if err := req.Validate(); err != nil {
		return false, err
	}

	created := false
	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if _, err := a.users.GetByEmail(txCtx, req.Email); err == nil {
			return nil
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to get user by email: %w", err)
		}
		if _, err := a.users.GetByUsername(txCtx, req.Username); err == nil {
			return nil
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("failed to get user by username: %w", err)
		}

		hashedPassword, err := a.hashPassword(req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		if _, err := a.users.Create(txCtx, user.User{
			Username:     req.Username,
			Email:        req.Email,
			FullName:     req.FullName,
			PasswordHash: &hashedPassword,
			Role:         access.RoleAdmin,
		}); err != nil {
			return fmt.Errorf("failed to create initial admin: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}
