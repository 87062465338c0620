package leave

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	// GetByID joins the requester's name and department
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	// List returns requests in scope; Scope.UserID matches the requester
	List(ctx context.Context, scope access.Scope, filter LeaveFilter) ([]LeaveRequest, int64, error)
	// HasOverlap reports a pending or approved request of userID intersecting [start, end]
	HasOverlap(ctx context.Context, userID int64, start, end time.Time) (bool, error)
	// Decide moves a pending request to status. It returns
	// ErrLeaveRequestAlreadyProcessed when the request is no longer pending.
	Decide(ctx context.Context, id int64, status Status, decidedBy int64, rejectionReason *string) (LeaveRequest, error)
}
