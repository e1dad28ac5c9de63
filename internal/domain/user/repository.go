package user

import (
	"context"
	"time"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (User, error)
	UpdateStatus(ctx context.Context, id string, status Status, at time.Time) (User, error)

	// ListTeam searches name, department and status case-insensitively.
	ListTeam(ctx context.Context, filter TeamFilter) ([]User, int64, error)

	// ResetStatusWithoutAttendance moves users in fromStatus who have no attendance on date to toStatus.
	// Returns the IDs of the users that changed.
	ResetStatusWithoutAttendance(ctx context.Context, date time.Time, fromStatus, toStatus Status, at time.Time) ([]string, error)
}
