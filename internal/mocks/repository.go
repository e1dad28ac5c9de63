// Package mocks holds testify mocks of the repository, storage and service interfaces.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	args := m.Called(ctx, newUser)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.User, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id string, status user.Status, at time.Time) (user.User, error) {
	args := m.Called(ctx, id, status, at)
	return args.Get(0).(user.User), args.Error(1)
}

func (m *MockUserRepository) ListTeam(ctx context.Context, filter user.TeamFilter) ([]user.User, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]user.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ResetStatusWithoutAttendance(ctx context.Context, date time.Time, fromStatus, toStatus user.Status, at time.Time) ([]string, error) {
	args := m.Called(ctx, date, fromStatus, toStatus, at)
	return args.Get(0).([]string), args.Error(1)
}

type MockAttendanceRepository struct {
	mock.Mock
}

func (m *MockAttendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(attendance.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	args := m.Called(ctx, userID, date)
	return args.Bool(0), args.Error(1)
}

func (m *MockAttendanceRepository) ListDatesInRange(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, userID, from, to)
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockAttendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	args := m.Called(ctx, date)
	return args.Get(0).([]attendance.Attendance), args.Error(1)
}

// Transactor runs fn directly, without a database.
type Transactor struct {
	Calls int
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++
	return fn(ctx)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Upload(ctx context.Context, file io.Reader, path string, contentType string) (string, error) {
	args := m.Called(ctx, file, path, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockFileStorage) URL(path string) string {
	args := m.Called(path)
	return args.String(0)
}
