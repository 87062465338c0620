package postgresql

import (
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

// scopeCondition renders an access.Scope as a WHERE fragment. deptCol and
// userCol name the department and owner columns of the listed rows. An empty
// scope matches nothing.
func scopeCondition(scope access.Scope, deptCol, userCol string, argIdx int) (string, []interface{}, int) {
	switch {
	case scope.All:
		return "TRUE", nil, argIdx
	case scope.DepartmentID != nil:
		return fmt.Sprintf("%s = $%d", deptCol, argIdx), []interface{}{*scope.DepartmentID}, argIdx + 1
	case scope.UserID != nil:
		return fmt.Sprintf("%s = $%d", userCol, argIdx), []interface{}{*scope.UserID}, argIdx + 1
	}
	return "FALSE", nil, argIdx
}

type scanner interface {
	Scan(dest ...interface{}) error
}
