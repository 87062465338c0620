package user

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	PasswordHash *string
	GoogleID     *string
	Role         access.Role
	DepartmentID *int64
	Salary       decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	DepartmentName *string
}

// Actor returns the identity the authorization policy sees for u.
func (u *User) Actor() access.Actor {
	return access.Actor{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}

// Subject returns u as the target of a profile check.
func (u *User) Subject() access.Subject {
	return access.Subject{ID: u.ID, Role: u.Role, DepartmentID: u.DepartmentID}
}
