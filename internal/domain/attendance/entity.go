package attendance

import (
	"time"
)

// Attendance is one office check-in. A user has at most one per local date.
type Attendance struct {
	ID             string
	UserID         string
	OfficeID       string
	Date           time.Time
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
	CreatedAt      time.Time

	// DTO
	UserName       *string
	UserDepartment *string
}
