package attendance

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// MARKING DTOs
// ========================================

// MarkAttendanceRequest carries the device position. Pointers tell a missing
// coordinate apart from 0.
type MarkAttendanceRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (r *MarkAttendanceRequest) Validate() error {
	return validator.Struct(r)
}

func (r MarkAttendanceRequest) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type OfficeResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
}

func NewOfficeResponse(o geo.Office) OfficeResponse {
	return OfficeResponse{
		ID:           o.ID,
		Name:         o.Name,
		Latitude:     o.Location.Latitude,
		Longitude:    o.Location.Longitude,
		RadiusMeters: o.RadiusMeters,
	}
}

type MarkAttendanceResponse struct {
	ID             string         `json:"id"`
	Date           string         `json:"date"`
	DistanceMeters float64        `json:"distance_meters"`
	Distance       string         `json:"distance"`
	Office         OfficeResponse `json:"office"`
	Status         string         `json:"status"`
	MarkedAt       string         `json:"marked_at"`
}

type CheckProximityRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func (r *CheckProximityRequest) Validate() error {
	return validator.Struct(r)
}

func (r CheckProximityRequest) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

type CheckProximityResponse struct {
	DistanceMeters float64        `json:"distance_meters"`
	Distance       string         `json:"distance"`
	WithinRange    bool           `json:"within_range"`
	Office         OfficeResponse `json:"office"`
}

// ========================================
// HISTORY DTOs
// ========================================

// MonthQuery selects a month ("YYYY-MM"); empty means the current month.
type MonthQuery struct {
	Month     string `json:"month"`
	WeekStart string `json:"week_start" validate:"omitempty,oneof=sunday monday"`
}

func (q *MonthQuery) Validate() error {
	var errs validator.ValidationErrors

	q.Month = strings.TrimSpace(q.Month)
	if q.Month != "" {
		if _, ok := validator.IsValidMonth(q.Month); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "month",
				Message: "month must be in YYYY-MM format",
			})
		}
	}

	q.WeekStart = strings.ToLower(strings.TrimSpace(q.WeekStart))
	if err := validator.Struct(q); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			errs = append(errs, verrs...)
		} else {
			return err
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Weekday maps WeekStart to the first column of the grid.
func (q MonthQuery) Weekday() time.Weekday {
	if q.WeekStart == "monday" {
		return time.Monday
	}
	return time.Sunday
}

type MonthlyReportResponse struct {
	calendar.MonthGrid
	Today       string   `json:"today"`
	MarkedDates []string `json:"marked_dates"`
	PrevMonth   string   `json:"prev_month"`
	NextMonth   string   `json:"next_month"`
}

type TodayStatusResponse struct {
	Date        string `json:"date"`
	MarkedToday bool   `json:"marked_today"`
}

// ========================================
// ADMIN DTOs
// ========================================

// DateQuery selects a day ("YYYY-MM-DD"); empty means today.
type DateQuery struct {
	Date string `json:"date"`
}

func (q *DateQuery) Validate() error {
	q.Date = strings.TrimSpace(q.Date)
	if q.Date == "" {
		return nil
	}
	if _, ok := validator.IsValidDate(q.Date); !ok {
		return validator.ValidationErrors{{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		}}
	}
	return nil
}

type AttendanceResponse struct {
	ID             string  `json:"id"`
	UserID         string  `json:"user_id"`
	UserName       *string `json:"user_name,omitempty"`
	Department     *string `json:"department,omitempty"`
	OfficeID       string  `json:"office_id"`
	Date           string  `json:"date"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceMeters float64 `json:"distance_meters"`
	MarkedAt       string  `json:"marked_at"`
}

type DailyAttendanceResponse struct {
	Date    string               `json:"date"`
	Total   int                  `json:"total"`
	Records []AttendanceResponse `json:"records"`
}
