package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// MarkAttendance checks the caller in at the nearest office when within its radius
	MarkAttendance(ctx context.Context, req MarkAttendanceRequest) (MarkAttendanceResponse, error)

	// CheckProximity evaluates the caller's position without marking anything
	CheckProximity(ctx context.Context, req CheckProximityRequest) (CheckProximityResponse, error)

	// GetMyAttendance lists the caller's marked dates of a month in ascending order
	GetMyAttendance(ctx context.Context, query MonthQuery) ([]string, error)

	// GetMonthlyReport renders the caller's month as a calendar grid
	GetMonthlyReport(ctx context.Context, query MonthQuery) (MonthlyReportResponse, error)

	// GetTodayStatus reports whether the caller marked attendance today
	GetTodayStatus(ctx context.Context) (TodayStatusResponse, error)

	// ListByDate lists the attendance of every user on a date (admin)
	ListByDate(ctx context.Context, query DateQuery) (DailyAttendanceResponse, error)
}
