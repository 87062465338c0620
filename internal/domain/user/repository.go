package user

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/shopspring/decimal"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	List(ctx context.Context, scope access.Scope, filter ListUserFilter) ([]User, int64, error)
	// ListByScope returns every user in scope, unpaginated, ordered by full name.
	ListByScope(ctx context.Context, scope access.Scope) ([]User, error)
	Create(ctx context.Context, newUser User) (User, error)
	Update(ctx context.Context, id int64, req UpdateUserRequest) (User, error)
	LinkGoogleAccount(ctx context.Context, googleID string, email string) (User, error)
	// DeductSalary subtracts amount from the stored salary, flooring at zero,
	// and returns the new salary.
	DeductSalary(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error)
}
