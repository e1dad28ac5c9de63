package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (user_id, office_id, date, latitude, longitude, distance_meters)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, user_id, office_id, date, latitude, longitude, distance_meters, created_at
	`

	var created attendance.Attendance
	err := q.QueryRow(ctx, query,
		a.UserID,
		a.OfficeID,
		a.Date,
		a.Latitude,
		a.Longitude,
		a.DistanceMeters,
	).Scan(
		&created.ID,
		&created.UserID,
		&created.OfficeID,
		&created.Date,
		&created.Latitude,
		&created.Longitude,
		&created.DistanceMeters,
		&created.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyMarked
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return created, nil
}

// ExistsForDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM attendances WHERE user_id = $1 AND date = $2)`,
		userID, date,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// ListDatesInRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListDatesInRange(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date
		FROM attendances
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance dates: %w", err)
	}
	defer rows.Close()

	dates := []time.Time{}
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan attendance date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			a.id, a.user_id, a.office_id, a.date, a.latitude, a.longitude,
			a.distance_meters, a.created_at,
			u.name AS user_name,
			u.department AS user_department
		FROM attendances a
		LEFT JOIN users u ON a.user_id = u.id
		WHERE a.date = $1
		ORDER BY a.created_at ASC
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	records := []attendance.Attendance{}
	for rows.Next() {
		var a attendance.Attendance
		err := rows.Scan(
			&a.ID, &a.UserID, &a.OfficeID, &a.Date, &a.Latitude, &a.Longitude,
			&a.DistanceMeters, &a.CreatedAt,
			&a.UserName, &a.UserDepartment,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	return records, rows.Err()
}
