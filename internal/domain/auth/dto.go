package auth

import (
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

// LoginRequest accepts either an email or a username.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	// Identifier
	switch {
	case validator.IsEmpty(r.Email) && validator.IsEmpty(r.Username):
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email or username is required",
		})
	case !validator.IsEmpty(r.Email):
		if len(r.Email) > 254 {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must not exceed 254 characters",
			})
		}
		if !validator.IsValidEmail(r.Email) {
			errs = append(errs, validator.ValidationError{
				Field:   "email",
				Message: "email must be a valid email address, e.g. user@example.com",
			})
		}
	default:
		if !validator.IsValidUsername(r.Username) {
			errs = append(errs, validator.ValidationError{
				Field:   "username",
				Message: "username must be 3-50 letters, numbers, dots, underscores or hyphens",
			})
		}
	}

	// Password
	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	} else if len(r.Password) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs = append(errs, validator.ValidationError{
			Field:   "refresh_token",
			Message: "refresh_token is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// LogoutRequest carries what logout has to revoke.
type LogoutRequest struct {
	RefreshToken string
	Session      Session
}

type InitialAdminRequest struct {
	Username string `validate:"required,min=3,max=50"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8,max=255"`
	FullName string `validate:"required,max=255"`
}

func (r *InitialAdminRequest) Validate() error {
	return validator.Struct(r)
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string `json:"access_token"`
	AccessTokenExpiresIn  int64  `json:"access_token_expires_in"`
	RefreshToken          string `json:"refresh_token"`
	RefreshTokenExpiresIn int64  `json:"refresh_token_expires_in"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
