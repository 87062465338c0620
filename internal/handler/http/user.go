package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
)

type UserHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Attendance(w http.ResponseWriter, r *http.Request)
}

type userHandlerImpl struct {
	userService       user.UserService
	attendanceService attendance.AttendanceService
}

func NewUserHandler(userService user.UserService, attendanceService attendance.AttendanceService) UserHandler {
	return &userHandlerImpl{
		userService:       userService,
		attendanceService: attendanceService,
	}
}

// Me handles GET /users/me
func (h *userHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	me, err := h.userService.Me(r.Context(), session.Actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, me)
}

// List handles GET /users
func (h *userHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	filter := user.ListUserFilter{
		Search: queryString(r, "search"),
		Role:   queryString(r, "role"),
	}
	if d := r.URL.Query().Get("department_id"); d != "" {
		departmentID, err := strconv.ParseInt(d, 10, 64)
		if err != nil {
			response.BadRequest(w, "Invalid department_id", nil)
			return
		}
		filter.DepartmentID = &departmentID
	}
	filter.Page, filter.Limit = pagination(r)

	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	users, err := h.userService.List(r.Context(), session.Actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, users)
}

// Get handles GET /users/{id}
func (h *userHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	profile, err := h.userService.Get(r.Context(), session.Actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, profile)
}

// Update handles PATCH /users/{id}
func (h *userHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateUser decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	updated, err := h.userService.Update(r.Context(), session.Actor, id, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "User updated successfully", updated)
}

// Attendance handles GET /users/{id}/attendance
func (h *userHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if id != session.ID && !user.HasPermission(session.Role, user.PermissionAttendanceViewTeam) {
		response.HandleError(w, user.ErrInsufficientPermissions)
		return
	}

	filter := attendance.CycleFilter{Date: queryString(r, "date")}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	cycle, err := h.attendanceService.UserCycle(r.Context(), session.Actor, id, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, cycle)
}
