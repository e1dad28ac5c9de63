package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/render"
)

type AttendanceHandler interface {
	Mark(w http.ResponseWriter, r *http.Request)
	CheckProximity(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	GetMonthlyReport(w http.ResponseWriter, r *http.Request)
	GetTodayStatus(w http.ResponseWriter, r *http.Request)
	ListByDate(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Mark implements AttendanceHandler.
func (h *attendanceHandlerImpl) Mark(w http.ResponseWriter, r *http.Request) {
	var req attendance.MarkAttendanceRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Validate request
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	// Call service
	result, err := h.attendanceService.MarkAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance marked successfully", result)
}

// CheckProximity implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckProximity(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckProximityRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckProximity(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func monthQuery(r *http.Request) attendance.MonthQuery {
	return attendance.MonthQuery{
		Month:     r.URL.Query().Get("month"),
		WeekStart: r.URL.Query().Get("week_start"),
	}
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	query := monthQuery(r)
	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	dates, err := h.attendanceService.GetMyAttendance(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, dates)
}

// GetMonthlyReport implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	query := monthQuery(r)
	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	report, err := h.attendanceService.GetMonthlyReport(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, report)
}

// GetTodayStatus implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetTodayStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.attendanceService.GetTodayStatus(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, status)
}

// ListByDate implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByDate(w http.ResponseWriter, r *http.Request) {
	query := attendance.DateQuery{Date: r.URL.Query().Get("date")}
	if err := query.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	daily, err := h.attendanceService.ListByDate(r.Context(), query)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, daily)
}
