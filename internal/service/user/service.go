package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type UserServiceImpl struct {
	userRepo user.UserRepository
}

var _ user.UserService = (*UserServiceImpl)(nil)

func NewUserService(userRepo user.UserRepository) *UserServiceImpl {
	return &UserServiceImpl{userRepo: userRepo}
}

func (s *UserServiceImpl) load(ctx context.Context, id int64) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Me implements user.UserService.
func (s *UserServiceImpl) Me(ctx context.Context, actor access.Actor) (user.UserResponse, error) {
	u, err := s.load(ctx, actor.ID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u, true), nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, actor access.Actor, filter user.ListUserFilter) (user.ListUserResponse, error) {
	if err := filter.Validate(); err != nil {
		return user.ListUserResponse{}, err
	}

	users, total, err := s.userRepo.List(ctx, access.ListScope(actor), filter)
	if err != nil {
		return user.ListUserResponse{}, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]user.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, user.NewUserResponse(u, access.CanViewSalary(actor, u.Subject())))
	}

	return user.ListUserResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: utils.TotalPages(total, filter.Limit),
		Showing:    utils.Showing(filter.Page, filter.Limit, total),
		Users:      responses,
	}, nil
}

// Get implements user.UserService.
func (s *UserServiceImpl) Get(ctx context.Context, actor access.Actor, id int64) (user.UserResponse, error) {
	u, err := s.load(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !access.CanViewProfile(actor, u.Subject()) {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}
	return user.NewUserResponse(u, access.CanViewSalary(actor, u.Subject())), nil
}

// Update implements user.UserService.
func (s *UserServiceImpl) Update(ctx context.Context, actor access.Actor, id int64, req user.UpdateUserRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	target, err := s.load(ctx, id)
	if err != nil {
		return user.UserResponse{}, err
	}
	if !access.CanEditProfile(actor, target.Subject()) {
		return user.UserResponse{}, user.ErrInsufficientPermissions
	}
	if req.HasRestrictedFields() && !access.CanEditRestrictedFields(actor) {
		return user.UserResponse{}, user.ErrRestrictedFields
	}

	updated, err := s.userRepo.Update(ctx, id, req)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(updated, access.CanViewSalary(actor, updated.Subject())), nil
}
