package department

import "context"

type DepartmentService interface {
	List(ctx context.Context) ([]DepartmentResponse, error)
	Get(ctx context.Context, id int64) (DepartmentResponse, error)
}
