package leave

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLeaveRepo struct {
	mu       sync.Mutex
	requests map[int64]leave.LeaveRequest
	nextID   int64
	users    *servicetest.Users
}

func (f *fakeLeaveRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	r.ID = f.nextID
	r.CreatedAt = time.Now()
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeLeaveRepo) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	f.mu.Lock()
	r, ok := f.requests[id]
	f.mu.Unlock()
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if u, err := f.users.GetByID(ctx, r.UserID); err == nil {
		r.UserFullName = &u.FullName
		r.UserDepartmentID = u.DepartmentID
	}
	return r, nil
}

func (f *fakeLeaveRepo) List(ctx context.Context, scope access.Scope, _ leave.LeaveFilter) ([]leave.LeaveRequest, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]leave.LeaveRequest, 0)
	for _, r := range f.requests {
		u, _ := f.users.GetByID(ctx, r.UserID)
		switch {
		case scope.All:
		case scope.DepartmentID != nil:
			if u.DepartmentID == nil || *u.DepartmentID != *scope.DepartmentID {
				continue
			}
		case scope.UserID != nil:
			if r.UserID != *scope.UserID {
				continue
			}
		default:
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

func (f *fakeLeaveRepo) HasOverlap(_ context.Context, userID int64, start, end time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.UserID == userID && r.Status != leave.StatusRejected && !r.StartDate.After(end) && !r.EndDate.Before(start) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepo) Decide(ctx context.Context, id int64, status leave.Status, decidedBy int64, reason *string) (leave.LeaveRequest, error) {
	f.mu.Lock()
	r, ok := f.requests[id]
	if !ok {
		f.mu.Unlock()
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if r.Status != leave.StatusPending {
		f.mu.Unlock()
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	now := time.Now()
	r.Status = status
	r.DecidedByID = &decidedBy
	r.DecidedAt = &now
	r.RejectionReason = reason
	f.requests[id] = r
	f.mu.Unlock()
	return f.GetByID(ctx, id)
}

var (
	engineering = int64(1)
	operations  = int64(2)

	admin  = access.Actor{ID: 1, Role: access.RoleAdmin}
	leader = access.Actor{ID: 2, Role: access.RoleLeader, DepartmentID: &engineering}
	bob    = access.Actor{ID: 3, Role: access.RoleEmployee, DepartmentID: &engineering}
	olga   = access.Actor{ID: 4, Role: access.RoleEmployee, DepartmentID: &operations}
)

type fixture struct {
	svc    *LeaveServiceImpl
	users  *servicetest.Users
	leaves *fakeLeaveRepo
	mailer *servicetest.Mailer
}

func newFixture() fixture {
	users := servicetest.NewUsers(
		user.User{ID: 1, Username: "admin", Email: "admin@example.com", FullName: "Admin", Role: access.RoleAdmin, Salary: decimal.NewFromInt(12000)},
		user.User{ID: 2, Username: "lead", Email: "lead@example.com", FullName: "Lead", Role: access.RoleLeader, DepartmentID: &engineering, Salary: decimal.NewFromInt(9000)},
		user.User{ID: 3, Username: "bob", Email: "bob@example.com", FullName: "Bob", Role: access.RoleEmployee, DepartmentID: &engineering, Salary: decimal.NewFromInt(3000)},
		user.User{ID: 4, Username: "olga", Email: "olga@example.com", FullName: "Olga", Role: access.RoleEmployee, DepartmentID: &operations, Salary: decimal.NewFromInt(3000)},
	)
	f := fixture{
		users:  users,
		leaves: &fakeLeaveRepo{requests: map[int64]leave.LeaveRequest{}, users: users},
		mailer: &servicetest.Mailer{},
	}
	f.svc = NewLeaveService(&servicetest.Transactor{}, f.leaves, users, f.mailer)
	return f
}

func fiveDays() leave.CreateLeaveRequest {
	return leave.CreateLeaveRequest{LeaveType: "annual", StartDate: "2024-03-04", EndDate: "2024-03-08"}
}

func salaryOf(t *testing.T, f fixture, id int64) decimal.Decimal {
	t.Helper()
	u, err := f.users.GetByID(context.Background(), id)
	require.NoError(t, err)
	return u.Salary
}

func TestLeaveService_CreateComputesDeductionOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	resp, err := f.svc.Create(ctx, bob, fiveDays())
	require.NoError(t, err)
	assert.Equal(t, 5, resp.DaysCount)
	assert.Equal(t, "300.00", resp.SalaryDeducted.StringFixed(2))
	assert.Equal(t, leave.StatusPending, resp.Status)

	short, err := f.svc.Create(ctx, bob, leave.CreateLeaveRequest{LeaveType: "sick", StartDate: "2024-03-11", EndDate: "2024-03-12"})
	require.NoError(t, err)
	assert.True(t, short.SalaryDeducted.IsZero())

	_, err = f.svc.Create(ctx, bob, leave.CreateLeaveRequest{LeaveType: "casual", StartDate: "2024-03-08", EndDate: "2024-03-09"})
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)
}

func TestLeaveService_ApproveAppliesStoredDeduction(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, bob, fiveDays())
	require.NoError(t, err)

	// A raise after submission does not change the deduction.
	bobUser, _ := f.users.GetByID(ctx, bob.ID)
	bobUser.Salary = decimal.NewFromInt(6000)
	f.users.Put(bobUser)

	approved, err := f.svc.Approve(ctx, leader, created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Status)
	assert.Equal(t, "5700.00", salaryOf(t, f, bob.ID).StringFixed(2))

	require.Len(t, f.mailer.LeaveDecisions, 1)
	decision := f.mailer.LeaveDecisions[0]
	assert.True(t, decision.Deducted)
	assert.Equal(t, "Lead", decision.DecidedByName)
	assert.Equal(t, "300.00", decision.SalaryDeducted)

	_, err = f.svc.Approve(ctx, admin, created.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	assert.Equal(t, "5700.00", salaryOf(t, f, bob.ID).StringFixed(2), "deducted once")
}

func TestLeaveService_DeductionFloorsAtZero(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, bob, leave.CreateLeaveRequest{LeaveType: "unpaid", StartDate: "2024-01-01", EndDate: "2024-03-31"})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.True(t, salaryOf(t, f, bob.ID).IsZero())
}

func TestLeaveService_RejectLeavesSalary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	created, err := f.svc.Create(ctx, bob, fiveDays())
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctx, leader, created.ID, leave.RejectLeaveRequest{Reason: servicetest.Ptr("release week")})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "release week", *rejected.RejectionReason)
	assert.Equal(t, "3000.00", salaryOf(t, f, bob.ID).StringFixed(2))
	assert.False(t, f.mailer.LeaveDecisions[0].Deducted)
}

func TestLeaveService_DecisionAuthorization(t *testing.T) {
	tests := []struct {
		name      string
		requester access.Actor
		decider   access.Actor
		wantErr   error
	}{
		{name: "leader decides department member", requester: bob, decider: leader},
		{name: "leader cannot decide own request", requester: leader, decider: leader, wantErr: leave.ErrDecisionForbidden},
		{name: "leader cannot decide other department", requester: olga, decider: leader, wantErr: leave.ErrDecisionForbidden},
		{name: "employee cannot decide", requester: bob, decider: olga, wantErr: leave.ErrDecisionForbidden},
		{name: "admin decides own request", requester: admin, decider: admin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			ctx := context.Background()
			created, err := f.svc.Create(ctx, tt.requester, fiveDays())
			require.NoError(t, err)

			_, err = f.svc.Approve(ctx, tt.decider, created.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLeaveService_ListIsScoped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for _, a := range []access.Actor{bob, olga, leader} {
		_, err := f.svc.Create(ctx, a, fiveDays())
		require.NoError(t, err)
	}

	mine, err := f.svc.List(ctx, bob, leave.LeaveFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.TotalCount)

	team, err := f.svc.List(ctx, leader, leave.LeaveFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), team.TotalCount)

	all, err := f.svc.List(ctx, admin, leave.LeaveFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.TotalCount)

	_, err = f.svc.Approve(ctx, admin, 99)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
