package leave

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

type LeaveService interface {
	// Create submits a request for the actor; days and deduction are fixed here
	Create(ctx context.Context, actor access.Actor, req CreateLeaveRequest) (LeaveResponse, error)

	// List returns own requests, the department's for leaders, all for admins
	List(ctx context.Context, actor access.Actor, filter LeaveFilter) (ListLeaveResponse, error)

	// Approve applies the stored deduction to the requester's salary
	Approve(ctx context.Context, actor access.Actor, id int64) (LeaveResponse, error)

	Reject(ctx context.Context, actor access.Actor, id int64, req RejectLeaveRequest) (LeaveResponse, error)
}
