package attendance

import "errors"

// Attendance domain errors
var (
	// Marking errors
	ErrAlreadyMarked        = errors.New("attendance already marked for today")
	ErrOutsideAllowedRadius = errors.New("you are outside the allowed radius")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)
