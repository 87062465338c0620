package user

import "github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"

// Permission gates whole routes. Row-level decisions (which user, which task)
// are made by the access package once the target is loaded.
type Permission string

const (
	// Self Management
	PermissionViewOwnProfile Permission = "profile.view_own"
	PermissionEditProfile    Permission = "profile.edit"

	// Attendance
	PermissionAttendanceCheckIn  Permission = "attendance.check_in"
	PermissionAttendanceViewTeam Permission = "attendance.view_team"

	// Tasks
	PermissionTaskView   Permission = "task.view"
	PermissionTaskAssign Permission = "task.assign"

	// Leave
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveApprove Permission = "leave.approve"

	// Reports
	PermissionReportsExport Permission = "reports.export"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[access.Role][]Permission{
	access.RoleAdmin: {
		PermissionViewOwnProfile,
		PermissionEditProfile,
		PermissionAttendanceCheckIn,
		PermissionAttendanceViewTeam,
		PermissionTaskView,
		PermissionTaskAssign,
		PermissionLeaveCreate,
		PermissionLeaveApprove,
		PermissionReportsExport,
	},
	access.RoleLeader: {
		PermissionViewOwnProfile,
		PermissionEditProfile,
		PermissionAttendanceCheckIn,
		PermissionAttendanceViewTeam,
		PermissionTaskView,
		PermissionTaskAssign,
		PermissionLeaveCreate,
		PermissionLeaveApprove,
		PermissionReportsExport,
	},
	access.RoleEmployee: {
		PermissionViewOwnProfile,
		PermissionAttendanceCheckIn,
		PermissionTaskView,
		PermissionLeaveCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role access.Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
