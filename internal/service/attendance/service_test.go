package attendance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/mocks"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/markcache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = "0190f3a2-7c1e-7b3a-9f00-000000000001"

var (
	ist        = time.FixedZone("IST", 5*3600+1800)
	fixedNow   = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	headOffice = geo.Office{
		ID:           "hq",
		Name:         "Head Office",
		Location:     geo.Coordinate{Latitude: 28.396897154550135, Longitude: 77.04149192330433},
		RadiusMeters: 100,
	}
)

type recordingPublisher struct {
	published []user.User
}

func (p *recordingPublisher) PublishStatus(u user.User) {
	p.published = append(p.published, u)
}

type attendanceFixture struct {
	attendance *mocks.MockAttendanceRepository
	users      *mocks.MockUserRepository
	tx         *mocks.Transactor
	marks      *markcache.Cache
	publisher  *recordingPublisher
	hub        *sse.Hub
	svc        *AttendanceServiceImpl
	ctx        context.Context
}

func contextFor(t *testing.T, role user.Role) context.Context {
	t.Helper()
	jwtService, err := jwt.NewJWTService("test-secret", "1h")
	require.NoError(t, err)
	token, _, err := jwtService.GenerateAccessToken(testUserID, "me@example.com", role)
	require.NoError(t, err)
	ctx, err := jwt.ContextWithClaims(context.Background(), jwtService.JWTAuth(), token)
	require.NoError(t, err)
	return ctx
}

func newAttendanceFixture(t *testing.T) *attendanceFixture {
	t.Helper()
	offices, err := geo.NewOfficeIndex(headOffice)
	require.NoError(t, err)

	f := &attendanceFixture{
		attendance: new(mocks.MockAttendanceRepository),
		users:      new(mocks.MockUserRepository),
		tx:         &mocks.Transactor{},
		marks:      markcache.New(ist),
		publisher:  &recordingPublisher{},
		hub:        sse.NewHub(),
		ctx:        contextFor(t, user.RoleEmployee),
	}
	f.svc = NewAttendanceService(f.tx, f.attendance, f.users, offices, f.marks, Options{
		Publisher: f.publisher,
		Hub:       f.hub,
		Location:  ist,
	})
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func nearbyRequest() attendance.MarkAttendanceRequest {
	lat, lon := coords(28.3973, 77.0415)
	return attendance.MarkAttendanceRequest{Latitude: lat, Longitude: lon}
}

func TestMarkAttendance_Success(t *testing.T) {
	f := newAttendanceFixture(t)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	events, cleanup := f.hub.Subscribe(testUserID)
	defer cleanup()

	f.attendance.On("ExistsForDate", f.ctx, testUserID, day).Return(false, nil)
	f.attendance.On("Create", f.ctx, mock.MatchedBy(func(a attendance.Attendance) bool {
		return a.UserID == testUserID && a.OfficeID == "hq" && a.Date.Equal(day)
	})).Return(attendance.Attendance{ID: "att-1", UserID: testUserID, Date: day, CreatedAt: fixedNow}, nil)
	f.users.On("UpdateStatus", f.ctx, testUserID, user.StatusInOffice, fixedNow).
		Return(user.User{ID: testUserID, Status: user.StatusInOffice}, nil)

	resp, err := f.svc.MarkAttendance(f.ctx, nearbyRequest())
	require.NoError(t, err)

	assert.Equal(t, "att-1", resp.ID)
	assert.Equal(t, "2024-03-05", resp.Date)
	assert.Equal(t, "In Office", resp.Status)
	assert.Equal(t, "hq", resp.Office.ID)
	assert.Less(t, resp.DistanceMeters, 100.0)
	assert.Equal(t, 1, f.tx.Calls)
	assert.True(t, f.marks.MarkedToday(testUserID, fixedNow))
	require.Len(t, f.publisher.published, 1)
	assert.Equal(t, user.StatusInOffice, f.publisher.published[0].Status)

	require.Len(t, events, 1)
	assert.Equal(t, EventAttendanceMarked, (<-events).Event)
}

func TestMarkAttendance_DateUsesOfficeTimeZone(t *testing.T) {
	f := newAttendanceFixture(t)
	// 20:00 UTC is 01:30 the next day in IST
	late := time.Date(2024, 3, 5, 20, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return late }
	nextDay := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	f.attendance.On("ExistsForDate", f.ctx, testUserID, nextDay).Return(false, nil)
	f.attendance.On("Create", f.ctx, mock.Anything).Return(attendance.Attendance{ID: "att-2"}, nil)
	f.users.On("UpdateStatus", f.ctx, testUserID, user.StatusInOffice, late).Return(user.User{ID: testUserID}, nil)

	resp, err := f.svc.MarkAttendance(f.ctx, nearbyRequest())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-06", resp.Date)
}

func TestMarkAttendance_OutsideRadius(t *testing.T) {
	f := newAttendanceFixture(t)
	lat, lon := coords(28.4069, 77.0415)

	_, err := f.svc.MarkAttendance(f.ctx, attendance.MarkAttendanceRequest{Latitude: lat, Longitude: lon})
	require.ErrorIs(t, err, attendance.ErrOutsideAllowedRadius)
	assert.Contains(t, err.Error(), "km")
	assert.Contains(t, err.Error(), "100 m")
	f.attendance.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Equal(t, 0, f.tx.Calls)
}

func TestMarkAttendance_AlreadyMarkedFromCache(t *testing.T) {
	f := newAttendanceFixture(t)
	f.marks.MarkToday(testUserID, fixedNow)

	_, err := f.svc.MarkAttendance(f.ctx, nearbyRequest())
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	f.attendance.AssertNotCalled(t, "ExistsForDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAttendance_AlreadyMarkedInRepository(t *testing.T) {
	f := newAttendanceFixture(t)
	f.attendance.On("ExistsForDate", f.ctx, testUserID, mock.Anything).Return(true, nil)

	_, err := f.svc.MarkAttendance(f.ctx, nearbyRequest())
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	assert.True(t, f.marks.MarkedToday(testUserID, fixedNow))
	assert.Equal(t, 0, f.tx.Calls)
}

func TestMarkAttendance_ConcurrentInsertLosesRace(t *testing.T) {
	f := newAttendanceFixture(t)
	f.attendance.On("ExistsForDate", f.ctx, testUserID, mock.Anything).Return(false, nil)
	f.attendance.On("Create", f.ctx, mock.Anything).Return(attendance.Attendance{}, attendance.ErrAlreadyMarked)

	_, err := f.svc.MarkAttendance(f.ctx, nearbyRequest())
	assert.ErrorIs(t, err, attendance.ErrAlreadyMarked)
	assert.Empty(t, f.publisher.published)
	f.users.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestMarkAttendance_RepositoryError(t *testing.T) {
	f := newAttendanceFixture(t)
	f.attendance.On("ExistsForDate", f.ctx, testUserID, mock.Anything).Return(false, errors.New("connection reset"))

	_, err := f.svc.MarkAttendance(f.ctx, nearbyRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.False(t, f.marks.MarkedToday(testUserID, fixedNow))
}

func TestMarkAttendance_RequiresClaims(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.svc.MarkAttendance(context.Background(), nearbyRequest())
	assert.ErrorIs(t, err, jwt.ErrMissingClaims)
}

func TestCheckProximity(t *testing.T) {
	f := newAttendanceFixture(t)

	lat, lon := coords(headOffice.Location.Latitude, headOffice.Location.Longitude)
	resp, err := f.svc.CheckProximity(f.ctx, attendance.CheckProximityRequest{Latitude: lat, Longitude: lon})
	require.NoError(t, err)
	assert.True(t, resp.WithinRange)
	assert.Equal(t, "0 m", resp.Distance)
	assert.Equal(t, "Head Office", resp.Office.Name)

	lat, lon = coords(29.396897154550135, 77.04149192330433)
	resp, err = f.svc.CheckProximity(f.ctx, attendance.CheckProximityRequest{Latitude: lat, Longitude: lon})
	require.NoError(t, err)
	assert.False(t, resp.WithinRange)
	assert.InDelta(t, 111195, resp.DistanceMeters, 1)
	assert.Equal(t, 0, f.tx.Calls)
}

func TestGetMyAttendance_SortsAscending(t *testing.T) {
	f := newAttendanceFixture(t)
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	f.attendance.On("ListDatesInRange", f.ctx, testUserID, from, to).Return([]time.Time{
		time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}, nil)

	dates, err := f.svc.GetMyAttendance(f.ctx, attendance.MonthQuery{Month: "2024-02"})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-01", "2024-02-29"}, dates)
}

func TestGetMyAttendance_DefaultsToCurrentMonth(t *testing.T) {
	f := newAttendanceFixture(t)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	f.attendance.On("ListDatesInRange", f.ctx, testUserID, from, to).Return([]time.Time{}, nil)

	dates, err := f.svc.GetMyAttendance(f.ctx, attendance.MonthQuery{})
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestGetMonthlyReport(t *testing.T) {
	f := newAttendanceFixture(t)
	f.attendance.On("ListDatesInRange", f.ctx, testUserID, mock.Anything, mock.Anything).Return([]time.Time{
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	}, nil)

	resp, err := f.svc.GetMonthlyReport(f.ctx, attendance.MonthQuery{Month: "2024-03"})
	require.NoError(t, err)

	assert.Equal(t, 2024, resp.Year)
	assert.Equal(t, 3, resp.Month)
	assert.Equal(t, 31, resp.TotalDays)
	assert.Equal(t, 2, resp.PresentCount)
	assert.Equal(t, 5, resp.FirstDayOffset)
	assert.Equal(t, "2024-03-05", resp.Today)
	assert.Equal(t, "2024-02", resp.PrevMonth)
	assert.Equal(t, "2024-04", resp.NextMonth)
	assert.Equal(t, []string{"2024-03-01", "2024-03-05"}, resp.MarkedDates)

	today := resp.Grid[1][2]
	assert.Equal(t, 5, today.Day)
	assert.True(t, today.IsToday)
	assert.True(t, today.IsMarked)
}

func TestGetMonthlyReport_WeekStartOverride(t *testing.T) {
	f := newAttendanceFixture(t)
	f.attendance.On("ListDatesInRange", f.ctx, testUserID, mock.Anything, mock.Anything).Return([]time.Time{}, nil)

	resp, err := f.svc.GetMonthlyReport(f.ctx, attendance.MonthQuery{Month: "2024-03", WeekStart: "monday"})
	require.NoError(t, err)
	assert.Equal(t, time.Monday, resp.WeekStart)
	assert.Equal(t, 4, resp.FirstDayOffset)
}

func TestGetMonthlyReport_RepositoryFailureRendersEmptyMonth(t *testing.T) {
	f := newAttendanceFixture(t)
	f.attendance.On("ListDatesInRange", f.ctx, testUserID, mock.Anything, mock.Anything).
		Return([]time.Time(nil), errors.New("timeout"))

	resp, err := f.svc.GetMonthlyReport(f.ctx, attendance.MonthQuery{Month: "2024-12"})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.PresentCount)
	assert.Empty(t, resp.MarkedDates)
	assert.Equal(t, "2025-01", resp.NextMonth)
}

func TestGetTodayStatus(t *testing.T) {
	f := newAttendanceFixture(t)
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	f.attendance.On("ExistsForDate", f.ctx, testUserID, day).Return(true, nil).Once()

	resp, err := f.svc.GetTodayStatus(f.ctx)
	require.NoError(t, err)
	assert.True(t, resp.MarkedToday)
	assert.Equal(t, "2024-03-05", resp.Date)

	// second call is answered from the cache
	resp, err = f.svc.GetTodayStatus(f.ctx)
	require.NoError(t, err)
	assert.True(t, resp.MarkedToday)
	f.attendance.AssertNumberOfCalls(t, "ExistsForDate", 1)
}

func TestListByDate_RequiresAdmin(t *testing.T) {
	f := newAttendanceFixture(t)

	_, err := f.svc.ListByDate(f.ctx, attendance.DateQuery{Date: "2024-03-05"})
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestListByDate(t *testing.T) {
	f := newAttendanceFixture(t)
	ctx := contextFor(t, user.RoleAdmin)
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	name := "Asha"
	f.attendance.On("ListByDate", ctx, day).Return([]attendance.Attendance{
		{ID: "a1", UserID: testUserID, OfficeID: "hq", Date: day, UserName: &name, CreatedAt: fixedNow},
	}, nil)

	resp, err := f.svc.ListByDate(ctx, attendance.DateQuery{Date: "2024-03-04"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", resp.Date)
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, "Asha", *resp.Records[0].UserName)
	assert.Equal(t, "2024-03-05T10:00:00Z", resp.Records[0].MarkedAt)
}
