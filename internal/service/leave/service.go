package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type LeaveServiceImpl struct {
	tx        database.Transactor
	leaveRepo leave.LeaveRequestRepository
	userRepo  user.UserRepository
	mailer    email.Mailer
}

var _ leave.LeaveService = (*LeaveServiceImpl)(nil)

func NewLeaveService(tx database.Transactor, leaveRepo leave.LeaveRequestRepository, userRepo user.UserRepository, mailer email.Mailer) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		tx:        tx,
		leaveRepo: leaveRepo,
		userRepo:  userRepo,
		mailer:    mailer,
	}
}

func (s *LeaveServiceImpl) getUser(ctx context.Context, id int64) (user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, actor access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	start, end := req.Dates()

	var created leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		requester, err := s.getUser(txCtx, actor.ID)
		if err != nil {
			return err
		}

		overlap, err := s.leaveRepo.HasOverlap(txCtx, actor.ID, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return leave.ErrOverlappingRequest
		}

		// Fixed now from the stored salary; later salary changes do not affect it.
		days, deduction := leave.Calculate(start, end, requester.Salary)

		created, err = s.leaveRepo.Create(txCtx, leave.LeaveRequest{
			UserID:         actor.ID,
			LeaveType:      leave.Type(req.LeaveType),
			StartDate:      start,
			EndDate:        end,
			DaysCount:      days,
			Reason:         req.Reason,
			Status:         leave.StatusPending,
			SalaryDeducted: deduction,
		})
		return err
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	return leave.NewLeaveResponse(created), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, actor access.Actor, filter leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveResponse{}, err
	}

	requests, total, err := s.leaveRepo.List(ctx, access.ListScope(actor), filter)
	if err != nil {
		return leave.ListLeaveResponse{}, err
	}

	responses := make([]leave.LeaveResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, leave.NewLeaveResponse(r))
	}

	return leave.ListLeaveResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: utils.TotalPages(total, filter.Limit),
		Showing:    utils.Showing(filter.Page, filter.Limit, total),
		Leaves:     responses,
	}, nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, actor access.Actor, id int64) (leave.LeaveResponse, error) {
	return s.decide(ctx, actor, id, leave.StatusApproved, nil)
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, actor access.Actor, id int64, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}
	return s.decide(ctx, actor, id, leave.StatusRejected, req.Reason)
}

func (s *LeaveServiceImpl) decide(ctx context.Context, actor access.Actor, id int64, status leave.Status, reason *string) (leave.LeaveResponse, error) {
	var (
		decided   leave.LeaveRequest
		requester user.User
	)
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		request, err := s.leaveRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		requester, err = s.getUser(txCtx, request.UserID)
		if err != nil {
			return err
		}
		if !access.CanDecideLeave(actor, requester.Subject()) {
			return leave.ErrDecisionForbidden
		}
		if !request.IsPending() {
			return leave.ErrLeaveRequestAlreadyProcessed
		}

		decided, err = s.leaveRepo.Decide(txCtx, id, status, actor.ID, reason)
		if err != nil {
			return err
		}

		if status == leave.StatusApproved && decided.SalaryDeducted.IsPositive() {
			salary, err := s.userRepo.DeductSalary(txCtx, requester.ID, decided.SalaryDeducted)
			if err != nil {
				return err
			}
			slog.Info("leave deduction applied", "leave_id", id, "user_id", requester.ID,
				"deducted", decided.SalaryDeducted.StringFixed(2), "salary", salary.StringFixed(2))
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	s.notifyDecision(ctx, actor, requester, decided)
	return leave.NewLeaveResponse(decided), nil
}

func (s *LeaveServiceImpl) notifyDecision(ctx context.Context, actor access.Actor, requester user.User, r leave.LeaveRequest) {
	data := email.LeaveDecisionData{
		RequesterName:  requester.FullName,
		LeaveType:      string(r.LeaveType),
		StartDate:      r.StartDate.Format("2006-01-02"),
		EndDate:        r.EndDate.Format("2006-01-02"),
		DaysCount:      r.DaysCount,
		Status:         string(r.Status),
		Deducted:       r.Status == leave.StatusApproved && r.SalaryDeducted.IsPositive(),
		SalaryDeducted: r.SalaryDeducted.StringFixed(2),
	}
	if decider, err := s.userRepo.GetByID(ctx, actor.ID); err == nil {
		data.DecidedByName = decider.FullName
	}
	if r.RejectionReason != nil {
		data.Reason = *r.RejectionReason
	}

	if err := s.mailer.SendLeaveDecision(ctx, requester.Email, data); err != nil {
		slog.Warn("failed to send leave decision email", "leave_id", r.ID, "user_id", requester.ID, "error", err)
	}
}
