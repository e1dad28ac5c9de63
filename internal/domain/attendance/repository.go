package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create stores a new record. A second record for the same user and date
	// fails with ErrAlreadyMarked.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// ExistsForDate reports whether the user already marked attendance on date
	ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error)

	// ListDatesInRange returns the marked dates of a user between from and to inclusive
	ListDatesInRange(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)

	// ListByDate returns everyone who marked attendance on date (admin view)
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)
}
