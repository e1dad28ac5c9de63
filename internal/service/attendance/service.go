package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/markcache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/jackc/pgx/v5"
)

// EventAttendanceMarked is sent to the marking user's own streams.
const EventAttendanceMarked = "attendance_marked"

// StatusPublisher announces a user's new status to the team stream.
type StatusPublisher interface {
	PublishStatus(u user.User)
}

type AttendanceServiceImpl struct {
	tx database.Transactor
	attendance.AttendanceRepository
	user.UserRepository
	offices   *geo.OfficeIndex
	marks     *markcache.Cache
	publisher StatusPublisher
	hub       *sse.Hub
	metrics   *metrics.Metrics
	loc       *time.Location
	weekStart time.Weekday
	now       func() time.Time
}

var _ attendance.AttendanceService = (*AttendanceServiceImpl)(nil)

// Options carries the optional collaborators of the attendance service.
type Options struct {
	Publisher StatusPublisher
	Hub       *sse.Hub
	Metrics   *metrics.Metrics
	Location  *time.Location
	WeekStart time.Weekday
}

func NewAttendanceService(
	tx database.Transactor,
	attendanceRepository attendance.AttendanceRepository,
	userRepository user.UserRepository,
	offices *geo.OfficeIndex,
	marks *markcache.Cache,
	opts Options,
) *AttendanceServiceImpl {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		tx:                   tx,
		AttendanceRepository: attendanceRepository,
		UserRepository:       userRepository,
		offices:              offices,
		marks:                marks,
		publisher:            opts.Publisher,
		hub:                  opts.Hub,
		metrics:              opts.Metrics,
		loc:                  loc,
		weekStart:            opts.WeekStart,
		now:                  time.Now,
	}
}

// today returns the current local date both as a DATE value and as YYYY-MM-DD.
func (s *AttendanceServiceImpl) today(now time.Time) (time.Time, string) {
	local := now.In(s.loc)
	date := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return date, date.Format(calendar.DateLayout)
}

// MarkAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}

	office, proximity, err := s.offices.Nearest(req.Coordinate())
	if err != nil {
		return attendance.MarkAttendanceResponse{}, err
	}
	if !proximity.WithinRange {
		s.metrics.ObserveMark(metrics.MarkResultOutsideRadius, proximity.DistanceMeters)
		return attendance.MarkAttendanceResponse{}, fmt.Errorf("%w: you are %s away from %s (allowed %s)",
			attendance.ErrOutsideAllowedRadius, proximity.FormattedDistance, office.Name, geo.FormatDistance(office.Threshold()))
	}

	now := s.now()
	date, dateStr := s.today(now)

	if s.marks.MarkedToday(claims.UserID, now) {
		s.metrics.ObserveMark(metrics.MarkResultAlreadyMarked, proximity.DistanceMeters)
		return attendance.MarkAttendanceResponse{}, attendance.ErrAlreadyMarked
	}
	exists, err := s.AttendanceRepository.ExistsForDate(ctx, claims.UserID, date)
	if err != nil {
		s.metrics.ObserveMark(metrics.MarkResultError, proximity.DistanceMeters)
		return attendance.MarkAttendanceResponse{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if exists {
		s.marks.MarkToday(claims.UserID, now)
		s.metrics.ObserveMark(metrics.MarkResultAlreadyMarked, proximity.DistanceMeters)
		return attendance.MarkAttendanceResponse{}, attendance.ErrAlreadyMarked
	}

	var (
		record  attendance.Attendance
		updated user.User
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		coord := req.Coordinate()
		created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
			UserID:         claims.UserID,
			OfficeID:       office.ID,
			Date:           date,
			Latitude:       coord.Latitude,
			Longitude:      coord.Longitude,
			DistanceMeters: proximity.DistanceMeters,
		})
		if err != nil {
			return err
		}
		record = created

		updated, err = s.UserRepository.UpdateStatus(ctx, claims.UserID, user.StatusInOffice, now)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return user.ErrUserNotFound
			}
			return fmt.Errorf("failed to update status: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyMarked) {
			s.marks.MarkToday(claims.UserID, now)
			s.metrics.ObserveMark(metrics.MarkResultAlreadyMarked, proximity.DistanceMeters)
			return attendance.MarkAttendanceResponse{}, err
		}
		s.metrics.ObserveMark(metrics.MarkResultError, proximity.DistanceMeters)
		if errors.Is(err, user.ErrUserNotFound) {
			return attendance.MarkAttendanceResponse{}, err
		}
		return attendance.MarkAttendanceResponse{}, fmt.Errorf("failed to mark attendance: %w", err)
	}

	s.marks.MarkToday(claims.UserID, now)
	s.metrics.ObserveMark(metrics.MarkResultMarked, proximity.DistanceMeters)
	if s.publisher != nil {
		s.publisher.PublishStatus(updated)
	}
	if s.hub != nil {
		s.hub.Publish(claims.UserID, sse.Event{
			UserID: claims.UserID,
			Event:  EventAttendanceMarked,
			Data:   map[string]string{"date": dateStr, "office_id": office.ID},
		})
	}

	slog.Info("attendance marked", "user_id", claims.UserID, "office_id", office.ID, "date", dateStr, "distance_m", proximity.DistanceMeters)

	markedAt := record.CreatedAt
	if markedAt.IsZero() {
		markedAt = now
	}
	return attendance.MarkAttendanceResponse{
		ID:             record.ID,
		Date:           dateStr,
		DistanceMeters: proximity.DistanceMeters,
		Distance:       proximity.FormattedDistance,
		Office:         attendance.NewOfficeResponse(office),
		Status:         string(user.StatusInOffice),
		MarkedAt:       markedAt.UTC().Format(time.RFC3339),
	}, nil
}

// CheckProximity implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckProximity(ctx context.Context, req attendance.CheckProximityRequest) (attendance.CheckProximityResponse, error) {
	office, proximity, err := s.offices.Nearest(req.Coordinate())
	if err != nil {
		return attendance.CheckProximityResponse{}, err
	}
	return attendance.CheckProximityResponse{
		DistanceMeters: proximity.DistanceMeters,
		Distance:       proximity.FormattedDistance,
		WithinRange:    proximity.WithinRange,
		Office:         attendance.NewOfficeResponse(office),
	}, nil
}

// resolveMonth returns the requested month, or the current local month when none is given.
func (s *AttendanceServiceImpl) resolveMonth(month string, now time.Time) (int, int, error) {
	if month == "" {
		local := now.In(s.loc)
		return local.Year(), int(local.Month()), nil
	}
	return calendar.ParseMonth(month)
}

func (s *AttendanceServiceImpl) markedDates(ctx context.Context, userID string, year, month int) (calendar.DateSet, error) {
	from, to, err := calendar.MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	dates, err := s.AttendanceRepository.ListDatesInRange(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	set := make(calendar.DateSet, len(dates))
	for _, d := range dates {
		set[d.Format(calendar.DateLayout)] = struct{}{}
	}
	return set, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, query attendance.MonthQuery) ([]string, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	year, month, err := s.resolveMonth(query.Month, s.now())
	if err != nil {
		return nil, err
	}

	set, err := s.markedDates(ctx, claims.UserID, year, month)
	if err != nil {
		return nil, err
	}
	return set.Sorted(), nil
}

// GetMonthlyReport implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMonthlyReport(ctx context.Context, query attendance.MonthQuery) (attendance.MonthlyReportResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.MonthlyReportResponse{}, err
	}

	now := s.now()
	year, month, err := s.resolveMonth(query.Month, now)
	if err != nil {
		return attendance.MonthlyReportResponse{}, err
	}
	_, today := s.today(now)

	// A failed lookup still renders the month, with nothing marked.
	set, err := s.markedDates(ctx, claims.UserID, year, month)
	if err != nil {
		slog.Error("failed to load attendance for calendar", "user_id", claims.UserID, "year", year, "month", month, "error", err)
		set = calendar.NewDateSet()
	}

	weekStart := s.weekStart
	if query.WeekStart != "" {
		weekStart = query.Weekday()
	}

	grid, err := calendar.BuildMonthGridWithWeekStart(year, month, set, today, weekStart)
	if err != nil {
		return attendance.MonthlyReportResponse{}, err
	}

	prevYear, prevMonth := calendar.AdjacentMonth(year, month, -1)
	nextYear, nextMonth := calendar.AdjacentMonth(year, month, 1)

	return attendance.MonthlyReportResponse{
		MonthGrid:   grid,
		Today:       today,
		MarkedDates: set.Sorted(),
		PrevMonth:   fmt.Sprintf("%04d-%02d", prevYear, prevMonth),
		NextMonth:   fmt.Sprintf("%04d-%02d", nextYear, nextMonth),
	}, nil
}

// GetTodayStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetTodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.TodayStatusResponse{}, err
	}

	now := s.now()
	date, dateStr := s.today(now)
	if s.marks.MarkedToday(claims.UserID, now) {
		return attendance.TodayStatusResponse{Date: dateStr, MarkedToday: true}, nil
	}

	exists, err := s.AttendanceRepository.ExistsForDate(ctx, claims.UserID, date)
	if err != nil {
		return attendance.TodayStatusResponse{}, fmt.Errorf("failed to check attendance: %w", err)
	}
	if exists {
		s.marks.MarkToday(claims.UserID, now)
	}
	return attendance.TodayStatusResponse{Date: dateStr, MarkedToday: exists}, nil
}

// ListByDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByDate(ctx context.Context, query attendance.DateQuery) (attendance.DailyAttendanceResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DailyAttendanceResponse{}, err
	}
	if !claims.IsAdmin() {
		return attendance.DailyAttendanceResponse{}, user.ErrAdminPrivilegeRequired
	}

	date, dateStr := s.today(s.now())
	if query.Date != "" {
		parsed, err := time.Parse(calendar.DateLayout, query.Date)
		if err != nil {
			return attendance.DailyAttendanceResponse{}, fmt.Errorf("invalid date %q: %w", query.Date, err)
		}
		date, dateStr = parsed, query.Date
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, date)
	if err != nil {
		return attendance.DailyAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	resp := attendance.DailyAttendanceResponse{
		Date:    dateStr,
		Total:   len(records),
		Records: make([]attendance.AttendanceResponse, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, attendance.AttendanceResponse{
			ID:             r.ID,
			UserID:         r.UserID,
			UserName:       r.UserName,
			Department:     r.UserDepartment,
			OfficeID:       r.OfficeID,
			Date:           r.Date.Format(calendar.DateLayout),
			Latitude:       r.Latitude,
			Longitude:      r.Longitude,
			DistanceMeters: r.DistanceMeters,
			MarkedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	return resp, nil
}
