package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
	"github.com/jackc/pgx/v5"
)

type AttendanceServiceImpl struct {
	attendanceRepo attendance.AttendanceRepository
	userRepo       user.UserRepository
	clock          clock.Clock
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

func NewAttendanceService(attendanceRepo attendance.AttendanceRepository, userRepo user.UserRepository, clk clock.Clock) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		clock:          clk,
	}
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, actor access.Actor) (attendance.StatusResponse, error) {
	now := s.clock.Now()

	rec, err := s.attendanceRepo.GetByUserAndDate(ctx, actor.ID, attendance.DateOf(now))
	if err != nil {
		return attendance.StatusResponse{}, err
	}

	st := attendance.Evaluate(now, rec)
	if st.AutoCheckoutDue {
		// Lost races with the scheduler are fine; the stored value is the same cutoff.
		if _, err := s.attendanceRepo.SetCheckOut(ctx, actor.ID, rec.Date, *st.CheckOut); err != nil {
			return attendance.StatusResponse{}, err
		}
		slog.Info("attendance auto checkout applied", "user_id", actor.ID, "date", rec.Date.Format("2006-01-02"))
	}

	return attendance.NewStatusResponse(st, now.Location()), nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, actor access.Actor) (attendance.StatusResponse, error) {
	now := s.clock.Now()

	attendanceType, err := attendance.EvaluateCheckIn(now)
	if err != nil {
		return attendance.StatusResponse{}, err
	}
	checkIn := now.Truncate(time.Second)
	today := attendance.DateOf(now)

	existing, err := s.attendanceRepo.GetByUserAndDate(ctx, actor.ID, today)
	if err != nil {
		return attendance.StatusResponse{}, err
	}
	if existing != nil && existing.CheckIn != nil {
		return attendance.StatusResponse{}, attendance.ErrAlreadyCheckedIn
	}

	cycle := attendance.PayCycle(now)
	if existing != nil {
		cycle = attendance.Cycle{Start: existing.CycleStartDate, End: existing.CycleEndDate}
	}

	stored, err := s.attendanceRepo.UpsertCheckIn(ctx, attendance.Attendance{
		UserID:         actor.ID,
		Date:           today,
		CheckIn:        &checkIn,
		CycleStartDate: cycle.Start,
		CycleEndDate:   cycle.End,
		AttendanceType: &attendanceType,
	})
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to record check-in: %w", err)
	}
	// A concurrent request stored its check-in first.
	if stored.CheckIn == nil || !stored.CheckIn.Equal(checkIn) {
		return attendance.StatusResponse{}, attendance.ErrAlreadyCheckedIn
	}

	slog.Info("attendance check-in", "user_id", actor.ID, "type", attendanceType)
	return attendance.NewStatusResponse(attendance.Evaluate(now, &stored), now.Location()), nil
}

// MyCycle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MyCycle(ctx context.Context, actor access.Actor, filter attendance.CycleFilter) (attendance.CycleAttendanceResponse, error) {
	return s.cycleFor(ctx, actor.ID, filter)
}

// UserCycle implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UserCycle(ctx context.Context, actor access.Actor, userID int64, filter attendance.CycleFilter) (attendance.CycleAttendanceResponse, error) {
	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.CycleAttendanceResponse{}, user.ErrUserNotFound
		}
		return attendance.CycleAttendanceResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !access.CanViewProfile(actor, target.Subject()) {
		return attendance.CycleAttendanceResponse{}, user.ErrInsufficientPermissions
	}
	return s.cycleFor(ctx, userID, filter)
}

func (s *AttendanceServiceImpl) cycleFor(ctx context.Context, userID int64, filter attendance.CycleFilter) (attendance.CycleAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.CycleAttendanceResponse{}, err
	}
	now := s.clock.Now()
	cycle := attendance.PayCycle(filter.Day(now))

	records, err := s.attendanceRepo.ListByUserAndRange(ctx, userID, cycle.Start, cycle.End)
	if err != nil {
		return attendance.CycleAttendanceResponse{}, err
	}

	resp := attendance.CycleAttendanceResponse{
		UserID:         userID,
		CycleStartDate: cycle.Start.Format("2006-01-02"),
		CycleEndDate:   cycle.End.Format("2006-01-02"),
		Records:        make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, rec := range records {
		if rec.AttendanceType != nil {
			switch *rec.AttendanceType {
			case attendance.TypeFullDay:
				resp.FullDays++
			case attendance.TypeHalfDay:
				resp.HalfDays++
			}
		}
		resp.Records = append(resp.Records, attendance.NewAttendanceResponse(rec, now.Location()))
	}
	return resp, nil
}

// CloseDueSessions implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CloseDueSessions(ctx context.Context) (int, error) {
	now := s.clock.Now()
	if !attendance.IsTracked(now) {
		return 0, nil
	}

	open, err := s.attendanceRepo.ListOpenSessions(ctx, attendance.DateOf(now))
	if err != nil {
		return 0, fmt.Errorf("failed to list open sessions: %w", err)
	}

	closed := 0
	for i := range open {
		rec := &open[i]
		checkOut, due := attendance.EvaluateAutoCheckout(now, rec)
		if !due {
			continue
		}
		ok, err := s.attendanceRepo.SetCheckOut(ctx, rec.UserID, rec.Date, checkOut)
		if err != nil {
			return closed, fmt.Errorf("failed to close session of user %d on %s: %w", rec.UserID, rec.Date.Format("2006-01-02"), err)
		}
		if ok {
			closed++
		}
	}
	return closed, nil
}
