package user

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

type UserService interface {
	// Me returns the actor's own profile, salary included
	Me(ctx context.Context, actor access.Actor) (UserResponse, error)

	// List returns the users visible to actor
	List(ctx context.Context, actor access.Actor, filter ListUserFilter) (ListUserResponse, error)

	// Get returns a single profile; salary is omitted unless actor may see it
	Get(ctx context.Context, actor access.Actor, id int64) (UserResponse, error)

	// Update edits a profile subject to the edit-profile rules
	Update(ctx context.Context, actor access.Actor, id int64, req UpdateUserRequest) (UserResponse, error)
}
