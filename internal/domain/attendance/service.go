package attendance

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Today evaluates the actor's status for today, storing a due automatic check-out
	Today(ctx context.Context, actor access.Actor) (StatusResponse, error)

	// CheckIn records today's check-in if the window allows it
	CheckIn(ctx context.Context, actor access.Actor) (StatusResponse, error)

	// MyCycle lists the actor's records for a pay cycle
	MyCycle(ctx context.Context, actor access.Actor, filter CycleFilter) (CycleAttendanceResponse, error)

	// UserCycle lists another user's records for a pay cycle, subject to profile visibility
	UserCycle(ctx context.Context, actor access.Actor, userID int64, filter CycleFilter) (CycleAttendanceResponse, error)

	// CloseDueSessions stores the automatic check-out on every open session past its cutoff
	CloseDueSessions(ctx context.Context) (int, error)
}
