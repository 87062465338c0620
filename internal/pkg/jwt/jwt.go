package jwt

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

var (
	ErrInvalidClaims = errors.New("token claims are missing or malformed")
	ErrWrongType     = errors.New("unexpected token type")
)

// Claims are the fields this service reads back from a verified token.
type Claims struct {
	UserID    int64
	TokenID   string
	Type      string
	ExpiresAt int64
}

type Service interface {
	GenerateAccessToken(userID int64, role access.Role) (token string, claims Claims, err error)
	GenerateRefreshToken(userID int64) (token string, expiresAt int64, err error)
	ParseRefreshToken(token string) (Claims, error)
	JWTAuth() *jwtauth.JWTAuth
	RefreshTokenCookie(token string, expiresAt int64) *http.Cookie
	ExpiredRefreshTokenCookie() *http.Cookie
}

type JWTService struct {
	accessTokenTTL  time.Duration
	refreshTokenTTL time.Duration
	secureCookie    bool
	tokenAuth       *jwtauth.JWTAuth
	now             func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

// NewJWTService parses both expirations up front; config validation has
// already checked them, so a failure here is a programming error.
func NewJWTService(secretKey string, accessTokenExpirationTime string, refreshTokenExpirationTime string, secureCookie bool) (*JWTService, error) {
	accessTTL, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid access token expiration: %w", err)
	}
	refreshTTL, err := time.ParseDuration(refreshTokenExpirationTime)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token expiration: %w", err)
	}

	return &JWTService{
		accessTokenTTL:  accessTTL,
		refreshTokenTTL: refreshTTL,
		secureCookie:    secureCookie,
		tokenAuth:       jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:             time.Now,
	}, nil
}

// GenerateAccessToken issues a token with a fresh jti so it can be revoked on
// logout. The role claim is informational; sessions reload it from the database.
func (j *JWTService) GenerateAccessToken(userID int64, role access.Role) (string, Claims, error) {
	c := Claims{
		UserID:    userID,
		TokenID:   uuid.NewString(),
		Type:      TokenTypeAccess,
		ExpiresAt: j.now().Add(j.accessTokenTTL).Unix(),
	}

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": strconv.FormatInt(userID, 10),
		"role":    string(role),
		"type":    c.Type,
		"jti":     c.TokenID,
		"exp":     c.ExpiresAt,
	})
	if err != nil {
		return "", Claims{}, err
	}
	return tokenString, c, nil
}

func (j *JWTService) GenerateRefreshToken(userID int64) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.refreshTokenTTL).Unix()
	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id": strconv.FormatInt(userID, 10),
		"type":    TokenTypeRefresh,
		"jti":     uuid.NewString(),
		"exp":     expiresAt,
	})
	return tokenString, expiresAt, err
}

// ParseRefreshToken verifies signature and expiry and requires type=refresh.
func (j *JWTService) ParseRefreshToken(tokenString string) (Claims, error) {
	token, err := jwtauth.VerifyToken(j.tokenAuth, tokenString)
	if err != nil {
		return Claims{}, err
	}
	c, err := ClaimsFromToken(token)
	if err != nil {
		return Claims{}, err
	}
	if c.Type != TokenTypeRefresh {
		return Claims{}, ErrWrongType
	}
	return c, nil
}

// ClaimsFromToken reads Claims from a token already verified by jwtauth.
func ClaimsFromToken(token jwt.Token) (Claims, error) {
	if token == nil {
		return Claims{}, ErrInvalidClaims
	}

	raw, ok := token.Get("user_id")
	if !ok {
		return Claims{}, ErrInvalidClaims
	}
	idStr, ok := raw.(string)
	if !ok {
		return Claims{}, ErrInvalidClaims
	}
	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return Claims{}, ErrInvalidClaims
	}

	tokenType, _ := token.Get("type")
	typ, _ := tokenType.(string)

	return Claims{
		UserID:    userID,
		TokenID:   token.JwtID(),
		Type:      typ,
		ExpiresAt: token.Expiration().Unix(),
	}, nil
}

func (j *JWTService) RefreshTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// ExpiredRefreshTokenCookie clears the refresh cookie on the client.
func (j *JWTService) ExpiredRefreshTokenCookie() *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}

// RefreshCookieName is the cookie the refresh endpoint reads.
func RefreshCookieName() string {
	return refreshCookieName
}
