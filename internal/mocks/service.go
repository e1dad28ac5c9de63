package mocks

import (
	"context"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req auth.LoginRequest) (auth.AuthResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(auth.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, rawToken string) error {
	args := m.Called(ctx, rawToken)
	return args.Error(0)
}

func (m *MockAuthService) StreamToken(ctx context.Context) (auth.StreamTokenResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(auth.StreamTokenResponse), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context) (user.UserResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.UserResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *MockUserService) UpdateStatus(ctx context.Context, req user.UpdateStatusRequest) (user.UserResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(user.UserResponse), args.Error(1)
}

func (m *MockUserService) GetEmployee(ctx context.Context, id string) (user.EmployeeDetailResponse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.EmployeeDetailResponse), args.Error(1)
}

func (m *MockUserService) ListTeam(ctx context.Context, filter user.TeamFilter) (user.ListTeamResponse, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(user.ListTeamResponse), args.Error(1)
}

type MockAttendanceService struct {
	mock.Mock
}

func (m *MockAttendanceService) MarkAttendance(ctx context.Context, req attendance.MarkAttendanceRequest) (attendance.MarkAttendanceResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(attendance.MarkAttendanceResponse), args.Error(1)
}

func (m *MockAttendanceService) CheckProximity(ctx context.Context, req attendance.CheckProximityRequest) (attendance.CheckProximityResponse, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(attendance.CheckProximityResponse), args.Error(1)
}

func (m *MockAttendanceService) GetMyAttendance(ctx context.Context, query attendance.MonthQuery) ([]string, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAttendanceService) GetMonthlyReport(ctx context.Context, query attendance.MonthQuery) (attendance.MonthlyReportResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(attendance.MonthlyReportResponse), args.Error(1)
}

func (m *MockAttendanceService) GetTodayStatus(ctx context.Context) (attendance.TodayStatusResponse, error) {
	args := m.Called(ctx)
	return args.Get(0).(attendance.TodayStatusResponse), args.Error(1)
}

func (m *MockAttendanceService) ListByDate(ctx context.Context, query attendance.DateQuery) (attendance.DailyAttendanceResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(attendance.DailyAttendanceResponse), args.Error(1)
}
