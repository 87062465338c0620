package department

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/department"
)

type DepartmentServiceImpl struct {
	departmentRepo department.DepartmentRepository
}

var _ department.DepartmentService = (*DepartmentServiceImpl)(nil)

func NewDepartmentService(departmentRepo department.DepartmentRepository) *DepartmentServiceImpl {
	return &DepartmentServiceImpl{departmentRepo: departmentRepo}
}

func toResponse(d department.Department) department.DepartmentResponse {
	return department.DepartmentResponse{ID: d.ID, Name: d.Name, MemberCount: d.MemberCount}
}

func (s *DepartmentServiceImpl) List(ctx context.Context) ([]department.DepartmentResponse, error) {
	departments, err := s.departmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	responses := make([]department.DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		responses = append(responses, toResponse(d))
	}
	return responses, nil
}

func (s *DepartmentServiceImpl) Get(ctx context.Context, id int64) (department.DepartmentResponse, error) {
	d, err := s.departmentRepo.GetByID(ctx, id)
	if err != nil {
		return department.DepartmentResponse{}, err
	}
	return toResponse(d), nil
}
