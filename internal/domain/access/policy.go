// Package access holds the authorization policy shared by every handler and
// service. All functions are pure; callers load the actor and target first.
package access

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID           int64
	Role         Role
	DepartmentID *int64
}

// Subject is a user whose profile, salary, attendance or leave is being accessed.
type Subject struct {
	ID           int64
	Role         Role
	DepartmentID *int64
}

// TaskSubject is the part of a task the policy looks at.
type TaskSubject struct {
	AssigneeID   int64
	AssignedByID int64
	DepartmentID *int64
}

// Scope restricts a listing. Exactly one of the fields is meaningful:
// All, DepartmentID, or UserID (the owner or assignee of the rows).
type Scope struct {
	All          bool
	DepartmentID *int64
	UserID       *int64
}

// Task statuses an assignee may set on their own task.
const (
	taskStatusPending    = "pending"
	taskStatusInProgress = "in_progress"
)

// sameDepartment is false whenever either side has no department.
func sameDepartment(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func (a Actor) isAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) isLeader() bool {
	return a.Role == RoleLeader
}

// CanViewProfile: own profile always; admin any; leader same department only.
func CanViewProfile(a Actor, s Subject) bool {
	if a.ID == s.ID {
		return true
	}
	switch {
	case a.isAdmin():
		return true
	case a.isLeader():
		return sameDepartment(a.DepartmentID, s.DepartmentID)
	}
	return false
}

// CanViewSalary: admin, or the salary's owner.
func CanViewSalary(a Actor, s Subject) bool {
	return a.isAdmin() || a.ID == s.ID
}

// CanEditProfile: admin any user; leader users of their own department; employee nobody.
func CanEditProfile(a Actor, s Subject) bool {
	switch {
	case a.isAdmin():
		return true
	case a.isLeader():
		return sameDepartment(a.DepartmentID, s.DepartmentID)
	}
	return false
}

// CanEditRestrictedFields reports whether a may change role, department or salary.
func CanEditRestrictedFields(a Actor) bool {
	return a.isAdmin()
}

// CanAssignTask: admin to anyone; leader only to employees of their own department.
func CanAssignTask(a Actor, assignee Subject) bool {
	switch {
	case a.isAdmin():
		return true
	case a.isLeader():
		return assignee.Role == RoleEmployee && sameDepartment(a.DepartmentID, assignee.DepartmentID)
	}
	return false
}

// CanUpdateTaskStatus: admin any task, any value; leader any value on tasks of
// their department; the assignee may only move their task between pending and
// in_progress.
func CanUpdateTaskStatus(a Actor, t TaskSubject, to string) bool {
	if a.isAdmin() {
		return true
	}
	if a.isLeader() && sameDepartment(a.DepartmentID, t.DepartmentID) {
		return true
	}
	if a.ID == t.AssigneeID {
		return to == taskStatusPending || to == taskStatusInProgress
	}
	return false
}

// CanViewTask: admin; leader of the task's department; the assignee or the assigner.
func CanViewTask(a Actor, t TaskSubject) bool {
	if a.isAdmin() {
		return true
	}
	if a.isLeader() && sameDepartment(a.DepartmentID, t.DepartmentID) {
		return true
	}
	return a.ID == t.AssigneeID || a.ID == t.AssignedByID
}

// CanDecideLeave: admin any request; leader requests from their department
// other than their own.
func CanDecideLeave(a Actor, requester Subject) bool {
	switch {
	case a.isAdmin():
		return true
	case a.isLeader():
		return a.ID != requester.ID && sameDepartment(a.DepartmentID, requester.DepartmentID)
	}
	return false
}

// CanExportAttendance: admin, or a leader with a department.
func CanExportAttendance(a Actor) bool {
	return a.isAdmin() || (a.isLeader() && a.DepartmentID != nil)
}

// ListScope is the set of rows a listing returns for a: admin everything,
// leader their department, everyone else (including a leader with no
// department) only their own rows.
func ListScope(a Actor) Scope {
	switch {
	case a.isAdmin():
		return Scope{All: true}
	case a.isLeader() && a.DepartmentID != nil:
		dept := *a.DepartmentID
		return Scope{DepartmentID: &dept}
	}
	id := a.ID
	return Scope{UserID: &id}
}
