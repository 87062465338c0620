package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
)

// AttendanceJobs closes check-ins that were left open past the daily cutoff.
type AttendanceJobs struct {
	attendanceService attendance.AttendanceService
	interval          time.Duration
}

func NewAttendanceJobs(attendanceService attendance.AttendanceService, interval time.Duration) *AttendanceJobs {
	if interval <= 0 {
		interval = time.Minute
	}
	return &AttendanceJobs{
		attendanceService: attendanceService,
		interval:          interval,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("auto_checkout_open_attendances", j.interval, j.AutoCheckout)
}

func (j *AttendanceJobs) AutoCheckout(ctx context.Context) error {
	closed, err := j.attendanceService.CloseDueSessions(ctx)
	if err != nil {
		return fmt.Errorf("failed to close due sessions: %w", err)
	}
	if closed > 0 {
		slog.Info("Cron: Auto checked out attendances", "count", closed)
	}
	return nil
}
