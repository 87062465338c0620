package user

import (
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(access.RoleAdmin, PermissionReportsExport))
	assert.True(t, HasPermission(access.RoleLeader, PermissionLeaveApprove))
	assert.True(t, HasPermission(access.RoleEmployee, PermissionAttendanceCheckIn))
	assert.False(t, HasPermission(access.RoleEmployee, PermissionTaskAssign))
	assert.False(t, HasPermission(access.RoleEmployee, PermissionEditProfile))
	assert.False(t, HasPermission(access.Role("owner"), PermissionViewOwnProfile))
	assert.False(t, HasPermission(access.RoleEmployee, PermissionAttendanceViewTeam))
	assert.True(t, HasPermission(access.RoleLeader, PermissionAttendanceViewTeam))
	for _, role := range []access.Role{access.RoleAdmin, access.RoleLeader, access.RoleEmployee} {
		assert.True(t, HasPermission(role, PermissionViewOwnProfile), role)
	}
}

func TestUpdateUserRequest_Validate(t *testing.T) {
	str := func(s string) *string { return &s }

	t.Run("empty body", func(t *testing.T) {
		req := UpdateUserRequest{}
		assert.Error(t, req.Validate())
	})

	t.Run("role normalized", func(t *testing.T) {
		req := UpdateUserRequest{Role: str("Leader")}
		assert.NoError(t, req.Validate())
		assert.Equal(t, "leader", *req.Role)
		assert.True(t, req.HasRestrictedFields())
	})

	t.Run("unknown role", func(t *testing.T) {
		req := UpdateUserRequest{Role: str("owner")}
		assert.Error(t, req.Validate())
	})

	t.Run("bad email", func(t *testing.T) {
		req := UpdateUserRequest{Email: str("not-an-email")}
		assert.Error(t, req.Validate())
	})

	t.Run("name only", func(t *testing.T) {
		req := UpdateUserRequest{FullName: str("Jane Doe")}
		assert.NoError(t, req.Validate())
		assert.False(t, req.HasRestrictedFields())
	})
}
