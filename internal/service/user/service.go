package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	"github.com/jackc/pgx/v5"
)

// EventStatusChanged is broadcast on the team stream whenever a status changes
const EventStatusChanged = "status_changed"

type UserServiceImpl struct {
	user.UserRepository
	fileService file.FileService
	hub         *sse.Hub
	now         func() time.Time
}

var _ user.UserService = (*UserServiceImpl)(nil)

func NewUserService(userRepository user.UserRepository, fileService file.FileService, hub *sse.Hub) *UserServiceImpl {
	return &UserServiceImpl{
		UserRepository: userRepository,
		fileService:    fileService,
		hub:            hub,
		now:            time.Now,
	}
}

func (s *UserServiceImpl) current(ctx context.Context) (user.User, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.User{}, err
	}
	return s.get(ctx, claims.UserID)
}

func (s *UserServiceImpl) get(ctx context.Context, id string) (user.User, error) {
	u, err := s.UserRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetProfile implements user.UserService.
func (s *UserServiceImpl) GetProfile(ctx context.Context) (user.UserResponse, error) {
	u, err := s.current(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u, s.fileService.URL), nil
}

// UpdateProfile implements user.UserService.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.UserResponse, error) {
	existing, err := s.current(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}
	req.ID = existing.ID

	if req.File != nil && req.FileHeader != nil {
		photo, err := s.fileService.UploadProfilePhoto(ctx, existing.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return user.UserResponse{}, err
		}
		req.PhotoURL = &photo
	}

	updated, err := s.UserRepository.UpdateProfile(ctx, req)
	if err != nil {
		if req.PhotoURL != nil {
			s.removePhoto(ctx, *req.PhotoURL)
		}
		return user.UserResponse{}, fmt.Errorf("failed to update profile: %w", err)
	}

	// Replaced photo
	if req.PhotoURL != nil && existing.PhotoURL != nil && *existing.PhotoURL != *req.PhotoURL {
		s.removePhoto(ctx, *existing.PhotoURL)
	}

	slog.Info("profile updated", "user_id", updated.ID)
	return user.NewUserResponse(updated, s.fileService.URL), nil
}

func (s *UserServiceImpl) removePhoto(ctx context.Context, path string) {
	if err := s.fileService.DeleteFile(ctx, path); err != nil {
		slog.Warn("failed to remove profile photo", "path", path, "error", err)
	}
}

// UpdateStatus implements user.UserService.
func (s *UserServiceImpl) UpdateStatus(ctx context.Context, req user.UpdateStatusRequest) (user.UserResponse, error) {
	status := user.Status(req.Status)
	if !status.Valid() {
		return user.UserResponse{}, user.ErrInvalidStatus
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return user.UserResponse{}, err
	}

	updated, err := s.SetStatus(ctx, claims.UserID, status)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(updated, s.fileService.URL), nil
}

// SetStatus stores a new status for id and announces it on the team stream.
func (s *UserServiceImpl) SetStatus(ctx context.Context, id string, status user.Status) (user.User, error) {
	updated, err := s.UserRepository.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to update status: %w", err)
	}

	s.PublishStatus(updated)
	return updated, nil
}

// PublishStatus broadcasts u's current status to every open team stream
func (s *UserServiceImpl) PublishStatus(u user.User) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(sse.Event{
		UserID: u.ID,
		Event:  EventStatusChanged,
		Data:   user.NewTeamMemberResponse(u, s.fileService.URL),
	})
}

// GetEmployee implements user.UserService.
func (s *UserServiceImpl) GetEmployee(ctx context.Context, id string) (user.EmployeeDetailResponse, error) {
	if !validator.IsValidUUID(id) {
		return user.EmployeeDetailResponse{}, user.ErrUserNotFound
	}

	u, err := s.get(ctx, id)
	if err != nil {
		return user.EmployeeDetailResponse{}, err
	}

	return user.EmployeeDetailResponse{
		UserResponse:     user.NewUserResponse(u, s.fileService.URL),
		StatusUpdatedAgo: user.StatusUpdatedAgo(s.now(), u.StatusUpdatedAt),
	}, nil
}

// ListTeam implements user.UserService.
func (s *UserServiceImpl) ListTeam(ctx context.Context, filter user.TeamFilter) (user.ListTeamResponse, error) {
	users, total, err := s.UserRepository.ListTeam(ctx, filter)
	if err != nil {
		return user.ListTeamResponse{}, fmt.Errorf("failed to list team: %w", err)
	}

	members := make([]user.TeamMemberResponse, 0, len(users))
	for _, u := range users {
		members = append(members, user.NewTeamMemberResponse(u, s.fileService.URL))
	}

	return user.ListTeamResponse{
		Users: members,
		Pagination: user.Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
		},
	}, nil
}
