package user

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	engineering = int64(1)
	operations  = int64(2)
)

func newFixture() (*UserServiceImpl, *servicetest.Users) {
	users := servicetest.NewUsers(
		user.User{ID: 1, Username: "admin", Email: "admin@example.com", FullName: "Admin", Role: access.RoleAdmin, Salary: decimal.NewFromInt(10000)},
		user.User{ID: 2, Username: "lead", Email: "lead@example.com", FullName: "Lead", Role: access.RoleLeader, DepartmentID: &engineering, Salary: decimal.NewFromInt(8000)},
		user.User{ID: 3, Username: "bob", Email: "bob@example.com", FullName: "Bob", Role: access.RoleEmployee, DepartmentID: &engineering, Salary: decimal.NewFromInt(5000)},
		user.User{ID: 4, Username: "olga", Email: "olga@example.com", FullName: "Olga", Role: access.RoleEmployee, DepartmentID: &operations, Salary: decimal.NewFromInt(5000)},
		user.User{ID: 5, Username: "drifter", Email: "drifter@example.com", FullName: "Drifter", Role: access.RoleLeader},
	)
	return NewUserService(users), users
}

func actorOf(t *testing.T, users *servicetest.Users, id int64) access.Actor {
	t.Helper()
	u, err := users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u.Actor()
}

func TestUserService_Get(t *testing.T) {
	svc, users := newFixture()
	ctx := context.Background()

	tests := []struct {
		name       string
		actor      int64
		target     int64
		wantErr    error
		wantSalary bool
	}{
		{name: "admin sees salary", actor: 1, target: 3, wantSalary: true},
		{name: "leader sees department member without salary", actor: 2, target: 3},
		{name: "leader denied other department", actor: 2, target: 4, wantErr: user.ErrInsufficientPermissions},
		{name: "employee sees own salary", actor: 3, target: 3, wantSalary: true},
		{name: "employee denied peer", actor: 3, target: 2, wantErr: user.ErrInsufficientPermissions},
		{name: "leader without department sees self", actor: 5, target: 5, wantSalary: true},
		{name: "leader without department denied", actor: 5, target: 3, wantErr: user.ErrInsufficientPermissions},
		{name: "unknown user", actor: 1, target: 99, wantErr: user.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Get(ctx, actorOf(t, users, tt.actor), tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, resp.ID)
			assert.Equal(t, tt.wantSalary, resp.Salary != nil)
		})
	}
}

func TestUserService_ListIsScoped(t *testing.T) {
	svc, users := newFixture()
	ctx := context.Background()

	resp, err := svc.List(ctx, actorOf(t, users, 1), user.ListUserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.TotalCount)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)

	resp, err = svc.List(ctx, actorOf(t, users, 2), user.ListUserFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.TotalCount)
	for _, u := range resp.Users {
		if u.ID == 2 {
			assert.NotNil(t, u.Salary)
		} else {
			assert.Nil(t, u.Salary)
		}
	}

	resp, err = svc.List(ctx, actorOf(t, users, 5), user.ListUserFilter{})
	require.NoError(t, err)
	require.Len(t, resp.Users, 1)
	assert.Equal(t, int64(5), resp.Users[0].ID)
}

func TestUserService_Update(t *testing.T) {
	ctx := context.Background()
	newName := "Robert"
	newRole := "LEADER"
	raise := decimal.NewFromInt(6000)

	tests := []struct {
		name    string
		actor   int64
		target  int64
		req     user.UpdateUserRequest
		wantErr error
	}{
		{name: "admin changes role", actor: 1, target: 3, req: user.UpdateUserRequest{Role: &newRole}},
		{name: "admin changes salary", actor: 1, target: 3, req: user.UpdateUserRequest{Salary: &raise}},
		{name: "leader renames member", actor: 2, target: 3, req: user.UpdateUserRequest{FullName: &newName}},
		{name: "leader cannot change salary", actor: 2, target: 3, req: user.UpdateUserRequest{Salary: &raise}, wantErr: user.ErrRestrictedFields},
		{name: "leader cannot edit other department", actor: 2, target: 4, req: user.UpdateUserRequest{FullName: &newName}, wantErr: user.ErrInsufficientPermissions},
		{name: "employee cannot edit self", actor: 3, target: 3, req: user.UpdateUserRequest{FullName: &newName}, wantErr: user.ErrInsufficientPermissions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users := newFixture()
			resp, err := svc.Update(ctx, actorOf(t, users, tt.actor), tt.target, tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, resp.ID)
		})
	}

	t.Run("role is normalized", func(t *testing.T) {
		svc, users := newFixture()
		resp, err := svc.Update(ctx, actorOf(t, users, 1), 3, user.UpdateUserRequest{Role: &newRole})
		require.NoError(t, err)
		assert.Equal(t, "leader", resp.Role)
	})

	t.Run("empty body", func(t *testing.T) {
		svc, users := newFixture()
		_, err := svc.Update(ctx, actorOf(t, users, 1), 3, user.UpdateUserRequest{})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})
}
