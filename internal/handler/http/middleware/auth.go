package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// Authenticator resolves a verified access token to the current user.
type Authenticator interface {
	Authenticate(ctx context.Context, userID int64, tokenID string, expiresAt int64) (auth.Session, error)
}

// AuthRequired must run after jwtauth.Verifier. It rejects anything but a valid
// access token, then loads the caller's role and department and stores the
// resulting auth.Session on the request context.
func AuthRequired(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, _, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			claims, err := jwt.ClaimsFromToken(token)
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if claims.Type != jwt.TokenTypeAccess {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			session, err := authenticator.Authenticate(r.Context(), claims.UserID, claims.TokenID, claims.ExpiresAt)
			if err != nil {
				slog.Warn("session rejected", "user_id", claims.UserID, "error", err)
				if errors.Is(err, auth.ErrUserNotFound) {
					// The account behind a still-valid token is gone.
					response.HandleError(w, auth.ErrInvalidToken)
					return
				}
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), session)))
		}
		return http.HandlerFunc(hfn)
	}
}
