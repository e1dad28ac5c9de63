package user

import "time"

type Role string

const (
	RoleEmployee Role = "employee" // Regular employee
	RoleAdmin    Role = "admin"    // Can see everyone's attendance
)

// Status is the live work status shown in the team directory.
type Status string

const (
	StatusInOffice    Status = "In Office"
	StatusOutOfOffice Status = "Out of Office"
	StatusWFH         Status = "WFH"
	StatusInMeeting   Status = "In Meeting"
	StatusOnBreak     Status = "On Break"
	StatusOnLeave     Status = "On Leave"
)

// Statuses lists every status a user may select.
var Statuses = []Status{
	StatusInOffice,
	StatusOutOfOffice,
	StatusWFH,
	StatusInMeeting,
	StatusOnBreak,
	StatusOnLeave,
}

func (s Status) Valid() bool {
	for _, st := range Statuses {
		if s == st {
			return true
		}
	}
	return false
}

type User struct {
	ID              string
	Email           string
	PasswordHash    string
	Name            string
	Phone           string
	Department      string
	PhotoURL        *string
	Role            Role
	Status          Status
	StatusUpdatedAt time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// IsAdmin checks if user can view company-wide attendance
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
