package user

import "context"

// UserService covers the authenticated user's profile, status and the team directory.
type UserService interface {
	GetProfile(ctx context.Context) (UserResponse, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (UserResponse, error)
	UpdateStatus(ctx context.Context, req UpdateStatusRequest) (UserResponse, error)
	GetEmployee(ctx context.Context, id string) (EmployeeDetailResponse, error)
	ListTeam(ctx context.Context, filter TeamFilter) (ListTeamResponse, error)
}
