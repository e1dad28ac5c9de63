package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/markcache"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

// TokenPurger drops expired entries from the token revocation list
type TokenPurger interface {
	PurgeRevoked(now time.Time) int
}

type AttendanceJobs struct {
	userRepo    user.UserRepository
	markCache   *markcache.Cache
	hub         *sse.Hub
	tokens      TokenPurger
	loc         *time.Location
	resetPeriod time.Duration
	now         func() time.Time
}

func NewAttendanceJobs(
	userRepo user.UserRepository,
	markCache *markcache.Cache,
	hub *sse.Hub,
	tokens TokenPurger,
	loc *time.Location,
	resetPeriod time.Duration,
) *AttendanceJobs {
	if loc == nil {
		loc = time.UTC
	}
	if resetPeriod <= 0 {
		resetPeriod = 15 * time.Minute
	}
	return &AttendanceJobs{
		userRepo:    userRepo,
		markCache:   markCache,
		hub:         hub,
		tokens:      tokens,
		loc:         loc,
		resetPeriod: resetPeriod,
		now:         time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reset_unmarked_statuses", j.resetPeriod, j.ResetUnmarkedStatuses)
	scheduler.AddJob("purge_mark_cache", 1*time.Hour, j.PurgeExpired)
}

// ResetUnmarkedStatuses moves users shown as In Office who have not marked
// attendance on the current local date back to Out of Office.
func (j *AttendanceJobs) ResetUnmarkedStatuses(ctx context.Context) error {
	now := j.now().In(j.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	ids, err := j.userRepo.ResetStatusWithoutAttendance(ctx, today, user.StatusInOffice, user.StatusOutOfOffice, now)
	if err != nil {
		return fmt.Errorf("failed to reset unmarked statuses: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}

	slog.Info("Cron: statuses reset", "count", len(ids), "date", today.Format("2006-01-02"))

	if j.hub != nil {
		j.hub.PublishToMany(ids, sse.Event{
			Event: "status_reset",
			Data: map[string]interface{}{
				"status": user.StatusOutOfOffice,
				"reason": "attendance not marked today",
			},
		})
		for _, id := range ids {
			j.hub.Broadcast(sse.Event{
				UserID: id,
				Event:  "status_changed",
				Data: map[string]interface{}{
					"user_id":           id,
					"status":            user.StatusOutOfOffice,
					"status_updated_at": now.Format(time.RFC3339),
				},
			})
		}
	}
	return nil
}

// PurgeExpired drops mark cache entries and revoked tokens past their expiry
func (j *AttendanceJobs) PurgeExpired(ctx context.Context) error {
	now := j.now()

	marks := 0
	if j.markCache != nil {
		marks = j.markCache.Purge(now)
	}
	tokens := 0
	if j.tokens != nil {
		tokens = j.tokens.PurgeRevoked(now)
	}

	if marks > 0 || tokens > 0 {
		slog.Info("Cron: expired entries purged", "mark_cache", marks, "revoked_tokens", tokens)
	}
	return nil
}
