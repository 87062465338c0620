package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/department"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/jwt"
	authService "github.com/cmlabs-hris/workforce-backend-go/internal/service/auth"
	"github.com/cmlabs-hris/workforce-backend-go/internal/service/servicetest"
	userService "github.com/cmlabs-hris/workforce-backend-go/internal/service/user"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	handlerTestAccessExp  = "1h"
	handlerTestRefreshExp = "24h"
	handlerTestSecret     = "test-secret-key-for-jwt"
	handlerTestPassword   = "password123"
)

// stubAttendance answers every call with err, or a fixed status.
type stubAttendance struct {
	err   error
	actor access.Actor
}

func (s *stubAttendance) Today(_ context.Context, a access.Actor) (attendance.StatusResponse, error) {
	s.actor = a
	return attendance.StatusResponse{State: attendance.StateNotCheckedIn, CanCheckIn: true}, s.err
}

func (s *stubAttendance) CheckIn(_ context.Context, a access.Actor) (attendance.StatusResponse, error) {
	s.actor = a
	if s.err != nil {
		return attendance.StatusResponse{}, s.err
	}
	return attendance.StatusResponse{State: attendance.StateCheckedIn}, nil
}

func (s *stubAttendance) MyCycle(_ context.Context, a access.Actor, _ attendance.CycleFilter) (attendance.CycleAttendanceResponse, error) {
	s.actor = a
	return attendance.CycleAttendanceResponse{UserID: a.ID}, s.err
}

func (s *stubAttendance) UserCycle(_ context.Context, a access.Actor, userID int64, _ attendance.CycleFilter) (attendance.CycleAttendanceResponse, error) {
	s.actor = a
	return attendance.CycleAttendanceResponse{UserID: userID}, s.err
}

func (s *stubAttendance) CloseDueSessions(context.Context) (int, error) { return 0, nil }

type stubLeave struct {
	actor   access.Actor
	decided int64
}

func (s *stubLeave) Create(_ context.Context, a access.Actor, _ leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	s.actor = a
	return leave.LeaveResponse{}, nil
}

func (s *stubLeave) List(_ context.Context, a access.Actor, _ leave.LeaveFilter) (leave.ListLeaveResponse, error) {
	s.actor = a
	return leave.ListLeaveResponse{}, nil
}

func (s *stubLeave) Approve(_ context.Context, a access.Actor, id int64) (leave.LeaveResponse, error) {
	s.actor, s.decided = a, id
	return leave.LeaveResponse{}, nil
}

func (s *stubLeave) Reject(_ context.Context, a access.Actor, id int64, _ leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	s.actor, s.decided = a, id
	return leave.LeaveResponse{}, nil
}

type stubTask struct{ task.TaskService }

func (stubTask) Create(context.Context, access.Actor, task.CreateTaskRequest) (task.TaskResponse, error) {
	return task.TaskResponse{}, task.ErrTaskAssignForbidden
}

func (stubTask) Get(context.Context, access.Actor, int64) (task.TaskResponse, error) {
	return task.TaskResponse{}, task.ErrTaskNotFound
}

type stubDepartment struct{ department.DepartmentService }

type stubReport struct{}

func (stubReport) AttendanceSummary(_ context.Context, a access.Actor, _ report.AttendanceReportRequest) (report.AttendanceReport, error) {
	if !access.CanExportAttendance(a) {
		return report.AttendanceReport{}, report.ErrExportForbidden
	}
	return report.AttendanceReport{CycleStartDate: "2024-02-26"}, nil
}

func (s stubReport) ExportAttendance(ctx context.Context, a access.Actor, req report.AttendanceReportRequest, w io.Writer) (string, error) {
	if _, err := s.AttendanceSummary(ctx, a, req); err != nil {
		return "", err
	}
	_, err := w.Write([]byte("PK-fake-workbook"))
	return "attendance_2024-02-26_2024-03-25.xlsx", err
}

type routerFixture struct {
	router     *chi.Mux
	users      *servicetest.Users
	attendance *stubAttendance
	leave      *stubLeave
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(handlerTestPassword), bcrypt.MinCost)
	require.NoError(t, err)
	hashed := string(hash)
	sales := int64(1)

	users := servicetest.NewUsers(
		user.User{ID: 1, Username: "admin", Email: "admin@example.com", FullName: "Admin", PasswordHash: &hashed, Role: access.RoleAdmin},
		user.User{ID: 2, Username: "lead", Email: "lead@example.com", FullName: "Lead", PasswordHash: &hashed, Role: access.RoleLeader, DepartmentID: &sales},
		user.User{ID: 3, Username: "emp", Email: "emp@example.com", FullName: "Emp", PasswordHash: &hashed, Role: access.RoleEmployee, DepartmentID: &sales, Salary: decimal.NewFromInt(3000)},
	)

	jwtSvc, err := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp, handlerTestRefreshExp, false)
	require.NoError(t, err)
	authSvc := authService.NewAuthService(&servicetest.Transactor{}, users, servicetest.NewRefreshTokens(), jwtSvc, jwt.NewMemoryRevocationStore())

	att := &stubAttendance{}
	lv := &stubLeave{}
	router := NewRouter(RouterConfig{AllowedOrigins: []string{"http://localhost:3000"}}, jwtSvc, authSvc, Handlers{
		Auth:       NewAuthHandler(jwtSvc, authSvc, nil, "http://localhost:3000", false),
		User:       NewUserHandler(userService.NewUserService(users), att),
		Department: NewDepartmentHandler(stubDepartment{}),
		Attendance: NewAttendanceHandler(att),
		Task:       NewTaskHandler(stubTask{}),
		Leave:      NewLeaveHandler(lv),
		Report:     NewReportHandler(stubReport{}),
	})

	return routerFixture{router: router, users: users, attendance: att, leave: lv}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (f routerFixture) do(t *testing.T, method, path, token string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

// login returns the access token and the refresh cookie.
func (f routerFixture) login(t *testing.T, username string) (string, *http.Cookie) {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: username, Password: handlerTestPassword})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &tokens))

	var refresh *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == jwt.RefreshCookieName() {
			refresh = c
		}
	}
	require.NotNil(t, refresh)
	return tokens.AccessToken, refresh
}

func TestLogin_ThenMe(t *testing.T) {
	f := newRouterFixture(t)
	token, _ := f.login(t, "emp")

	rec := f.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me user.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &me))
	assert.Equal(t, "emp", me.Username)
	require.NotNil(t, me.Salary)
	assert.Equal(t, "3000", me.Salary.String())
}

func TestLogin_Errors(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode(t, rec).Error.Details, "email")

	rec = f.do(t, http.MethodPost, "/api/v1/auth/login", "", auth.LoginRequest{Username: "emp", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
	raw := httptest.NewRecorder()
	f.router.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/users/me", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken_IsNotAnAccessToken(t *testing.T) {
	f := newRouterFixture(t)
	_, refresh := f.login(t, "emp")

	rec := f.do(t, http.MethodGet, "/api/v1/users/me", refresh.Value, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshAndLogout(t *testing.T) {
	f := newRouterFixture(t)
	token, refresh := f.login(t, "emp")

	rec := f.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil, refresh)
	require.Equal(t, http.StatusCreated, rec.Code)
	var refreshed auth.AccessTokenResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	rec = f.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil, refresh)
	require.Equal(t, http.StatusOK, rec.Code)

	// Both tokens are dead after logout.
	rec = f.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = f.do(t, http.MethodPost, "/api/v1/auth/refresh", "", nil, refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSession_ReadsRoleFromStore(t *testing.T) {
	f := newRouterFixture(t)
	token, _ := f.login(t, "emp")

	rec := f.do(t, http.MethodPost, "/api/v1/leaves/7/approve", token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Promote after the token was issued; the next request sees the new role.
	emp, err := f.users.GetByID(context.Background(), 3)
	require.NoError(t, err)
	emp.Role = access.RoleLeader
	f.users.Put(emp)

	rec = f.do(t, http.MethodPost, "/api/v1/leaves/7/approve", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, access.RoleLeader, f.leave.actor.Role)
	assert.Equal(t, int64(3), f.leave.actor.ID)
	assert.Equal(t, int64(7), f.leave.decided)
}

func TestSession_DeletedUser(t *testing.T) {
	f := newRouterFixture(t)
	token, _ := f.login(t, "emp")

	f.users.Delete(3)

	rec := f.do(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPermissionGates(t *testing.T) {
	f := newRouterFixture(t)
	empToken, _ := f.login(t, "emp")
	leadToken, _ := f.login(t, "lead")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{"employee cannot assign", http.MethodPost, "/api/v1/tasks", empToken, map[string]interface{}{}, http.StatusForbidden},
		{"employee cannot edit profiles", http.MethodPatch, "/api/v1/users/3", empToken, map[string]string{"full_name": "x"}, http.StatusForbidden},
		{"employee cannot export", http.MethodGet, "/api/v1/reports/attendance", empToken, nil, http.StatusForbidden},
		{"leader reaches task service", http.MethodGet, "/api/v1/tasks/99", leadToken, nil, http.StatusNotFound},
		{"leader reads report", http.MethodGet, "/api/v1/reports/attendance", leadToken, nil, http.StatusOK},
		{"employee cannot view admin", http.MethodGet, "/api/v1/users/1", empToken, nil, http.StatusForbidden},
		{"leader views department member", http.MethodGet, "/api/v1/users/3", leadToken, nil, http.StatusOK},
		{"bad id", http.MethodGet, "/api/v1/users/abc", leadToken, nil, http.StatusBadRequest},
		{"employee cannot view team attendance", http.MethodGet, "/api/v1/users/2/attendance", empToken, nil, http.StatusForbidden},
		{"employee views own attendance by id", http.MethodGet, "/api/v1/users/3/attendance", empToken, nil, http.StatusOK},
		{"leader views member attendance", http.MethodGet, "/api/v1/users/3/attendance", leadToken, nil, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestLeaderCannotSeeSalaryOfMember(t *testing.T) {
	f := newRouterFixture(t)
	token, _ := f.login(t, "lead")

	rec := f.do(t, http.MethodGet, "/api/v1/users/3", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile user.UserResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &profile))
	assert.Nil(t, profile.Salary)
}

func TestCheckIn_ErrorMapping(t *testing.T) {
	tests := []struct {
		err     error
		want    int
		message string
	}{
		{attendance.ErrCheckInNotOpen, http.StatusBadRequest, "check-in opens at 10:00 AM"},
		{attendance.ErrCheckInClosed, http.StatusBadRequest, "check-in time has passed"},
		{attendance.ErrAlreadyCheckedIn, http.StatusConflict, "already checked in today"},
		{nil, http.StatusCreated, ""},
	}
	for _, tt := range tests {
		f := newRouterFixture(t)
		token, _ := f.login(t, "emp")
		f.attendance.err = tt.err

		rec := f.do(t, http.MethodPost, "/api/v1/attendance/check-in", token, nil)
		assert.Equal(t, tt.want, rec.Code)
		if tt.message != "" {
			assert.Equal(t, tt.message, decode(t, rec).Error.Message)
		}
		assert.Equal(t, int64(3), f.attendance.actor.ID)
	}
}

func TestAttendanceCycle_InvalidDate(t *testing.T) {
	f := newRouterFixture(t)
	token, _ := f.login(t, "emp")

	rec := f.do(t, http.MethodGet, "/api/v1/attendance/me?date=05-03-2024", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/attendance/me?date=2024-03-05", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestExportAttendance_Headers(t *testing.T) {
	f := newRouterFixture(t)
	token, _ := f.login(t, "admin")

	rec := f.do(t, http.MethodGet, "/api/v1/reports/attendance.xlsx", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attendance_2024-02-26_2024-03-25.xlsx")
	assert.Equal(t, "PK-fake-workbook", rec.Body.String())
}

func TestGoogleLogin_Disabled(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/auth/login/oauth/google", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/v1/auth/oauth/callback/google?code=x&state=y", "", nil)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "error=google_disabled")
}
