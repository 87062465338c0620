package access

import (
	"errors"
	"strings"
)

var ErrInvalidRole = errors.New("role must be one of: admin, leader, employee")

type Role string

const (
	RoleAdmin    Role = "admin"    // Full access across departments
	RoleLeader   Role = "leader"   // Scoped to a single department
	RoleEmployee Role = "employee" // Own records only
)

// ParseRole normalizes a stored or submitted role. Comparison is case-insensitive;
// anything outside the three known roles is rejected rather than guessed at.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleLeader:
		return RoleLeader, nil
	case RoleEmployee:
		return RoleEmployee, nil
	}
	return "", ErrInvalidRole
}

func (r Role) String() string {
	return string(r)
}
