package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/clock"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var wib = time.FixedZone("WIB", 7*60*60)

// rangeRepo only serves ListByRange; the other methods are never called here.
type rangeRepo struct {
	attendance.AttendanceRepository
	records   []attendance.Attendance
	lastScope access.Scope
	from, to  time.Time
}

func (r *rangeRepo) ListByRange(_ context.Context, scope access.Scope, from, to time.Time) ([]attendance.Attendance, error) {
	r.lastScope, r.from, r.to = scope, from, to
	var out []attendance.Attendance
	for _, rec := range r.records {
		if rec.Date.Before(from) || rec.Date.After(to) {
			continue
		}
		switch {
		case scope.All:
		case scope.UserID != nil && rec.UserID == *scope.UserID:
		case scope.DepartmentID != nil && rec.UserID != 3:
		default:
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func typ(t attendance.Type) *attendance.Type { return &t }

func fixture() (*rangeRepo, *servicetest.Users) {
	sales, ops := int64(1), int64(2)
	users := servicetest.NewUsers(
		user.User{ID: 1, Username: "ana", FullName: "Ana", Role: access.RoleLeader, DepartmentID: &sales},
		user.User{ID: 2, Username: "budi", FullName: "Budi", Role: access.RoleEmployee, DepartmentID: &sales},
		user.User{ID: 3, Username: "citra", FullName: "Citra", Role: access.RoleEmployee, DepartmentID: &ops},
		user.User{ID: 4, Username: "root", FullName: "Root", Role: access.RoleAdmin},
	)

	in := func(day, hour, min int) *time.Time {
		t := time.Date(2024, 3, day, hour, min, 0, 0, wib)
		return &t
	}
	cycleStart := time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC)
	cycleEnd := time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)
	rec := func(userID int64, day int, checkIn, checkOut *time.Time, t attendance.Type) attendance.Attendance {
		return attendance.Attendance{
			UserID:         userID,
			Date:           time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
			CheckIn:        checkIn,
			CheckOut:       checkOut,
			AttendanceType: typ(t),
			CycleStartDate: cycleStart,
			CycleEndDate:   cycleEnd,
		}
	}

	repo := &rangeRepo{records: []attendance.Attendance{
		rec(2, 4, in(4, 10, 5), in(4, 18, 0), attendance.TypeFullDay),
		rec(2, 5, in(5, 11, 0), in(5, 18, 0), attendance.TypeHalfDay),
		rec(2, 6, in(6, 10, 0), nil, attendance.TypeFullDay),
		rec(3, 4, in(4, 10, 10), in(4, 18, 0), attendance.TypeFullDay),
		// next cycle
		rec(2, 27, in(27, 10, 0), in(27, 18, 0), attendance.TypeFullDay),
	}}
	return repo, users
}

func newService(repo *rangeRepo, users *servicetest.Users) *ReportServiceImpl {
	return NewReportService(repo, users, clock.Fixed(time.Date(2024, 3, 6, 15, 0, 0, 0, wib)))
}

func TestAttendanceSummary_LeaderSeesOwnDepartment(t *testing.T) {
	repo, users := fixture()
	svc := newService(repo, users)
	sales := int64(1)

	got, err := svc.AttendanceSummary(context.Background(), access.Actor{ID: 1, Role: access.RoleLeader, DepartmentID: &sales}, report.AttendanceReportRequest{})
	require.NoError(t, err)

	assert.Equal(t, "2024-02-26", got.CycleStartDate)
	assert.Equal(t, "2024-03-25", got.CycleEndDate)
	require.NotNil(t, repo.lastScope.DepartmentID)
	assert.Equal(t, sales, *repo.lastScope.DepartmentID)

	require.Len(t, got.Users, 2)
	assert.Equal(t, "ana", got.Users[0].Username)
	assert.Empty(t, got.Users[0].Records)

	budi := got.Users[1]
	assert.Equal(t, "budi", budi.Username)
	assert.Equal(t, 2, budi.FullDays)
	assert.Equal(t, 1, budi.HalfDays)
	assert.Equal(t, 1, budi.OpenSessions)
	assert.Len(t, budi.Records, 3)
}

func TestAttendanceSummary_DateSelectsCycle(t *testing.T) {
	repo, users := fixture()
	svc := newService(repo, users)
	date := "2024-03-26"

	got, err := svc.AttendanceSummary(context.Background(), access.Actor{ID: 4, Role: access.RoleAdmin}, report.AttendanceReportRequest{
		CycleFilter: attendance.CycleFilter{Date: &date},
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-03-26", got.CycleStartDate)
	assert.Equal(t, "2024-04-25", got.CycleEndDate)
	assert.True(t, repo.lastScope.All)
	require.Len(t, got.Users, 4)
	assert.Len(t, got.Users[1].Records, 1)
	assert.Equal(t, 1, got.Users[1].FullDays)
}

func TestAttendanceSummary_Forbidden(t *testing.T) {
	repo, users := fixture()
	svc := newService(repo, users)
	sales := int64(1)

	tests := []struct {
		name  string
		actor access.Actor
	}{
		{"employee", access.Actor{ID: 2, Role: access.RoleEmployee, DepartmentID: &sales}},
		{"leader without department", access.Actor{ID: 9, Role: access.RoleLeader}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AttendanceSummary(context.Background(), tt.actor, report.AttendanceReportRequest{})
			assert.ErrorIs(t, err, report.ErrExportForbidden)
		})
	}
}

func TestAttendanceSummary_InvalidDate(t *testing.T) {
	repo, users := fixture()
	svc := newService(repo, users)
	bad := "06/03/2024"

	_, err := svc.AttendanceSummary(context.Background(), access.Actor{ID: 4, Role: access.RoleAdmin}, report.AttendanceReportRequest{
		CycleFilter: attendance.CycleFilter{Date: &bad},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "date")
}

func TestExportAttendance_Workbook(t *testing.T) {
	repo, users := fixture()
	svc := newService(repo, users)
	sales := int64(1)

	var buf bytes.Buffer
	name, err := svc.ExportAttendance(context.Background(), access.Actor{ID: 1, Role: access.RoleLeader, DepartmentID: &sales}, report.AttendanceReportRequest{}, &buf)
	require.NoError(t, err)
	assert.Equal(t, "attendance_2024-02-26_2024-03-25.xlsx", name)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Records"}, f.GetSheetList())

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 5)
	assert.Equal(t, "Attendance 2024-02-26 to 2024-03-25", summary[0][0])
	assert.Equal(t, []string{"Username", "Full Name", "Full Days", "Half Days", "Open Sessions"}, summary[2])
	assert.Equal(t, []string{"budi", "Budi", "2", "1", "1"}, summary[4])

	records, err := f.GetRows("Records")
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"2024-03-04", "budi", "Budi", "2024-03-04T10:05:00+07:00", "2024-03-04T18:00:00+07:00", "full_day"}, records[1])
	assert.Equal(t, "", records[3][4])
}
