package user

import "errors"

var (
	ErrUserNotFound            = errors.New("user not found")
	ErrUserEmailExists         = errors.New("email already registered")
	ErrUsernameExists          = errors.New("username already taken")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrRestrictedFields        = errors.New("role, department and salary can only be changed by an admin")
)
