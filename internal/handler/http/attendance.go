package http

import (
	"net/http"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	MyCycle(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{attendanceService: attendanceService}
}

// Today handles GET /attendance/today
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	status, err := h.attendanceService.Today(r.Context(), session.Actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

// CheckIn handles POST /attendance/check-in
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	status, err := h.attendanceService.CheckIn(r.Context(), session.Actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Checked in successfully", status)
}

// MyCycle handles GET /attendance/me
func (h *attendanceHandlerImpl) MyCycle(w http.ResponseWriter, r *http.Request) {
	session, ok := sessionFrom(w, r)
	if !ok {
		return
	}

	filter := attendance.CycleFilter{Date: queryString(r, "date")}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	cycle, err := h.attendanceService.MyCycle(r.Context(), session.Actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, cycle)
}
