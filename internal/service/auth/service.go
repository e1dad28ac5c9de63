package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	tx database.Transactor
	user.UserRepository
	jwt.Service
	fileService file.FileService
	now         func() time.Time
}

func NewAuthService(tx database.Transactor, userRepository user.UserRepository, jwtService jwt.Service, fileService file.FileService) auth.AuthService {
	return &AuthServiceImpl{
		tx:             tx,
		UserRepository: userRepository,
		Service:        jwtService,
		fileService:    fileService,
		now:            time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *AuthServiceImpl) issue(u user.User) (auth.AuthResponse, error) {
	token, expiresAt, err := a.Service.GenerateAccessToken(u.ID, u.Email, u.Role)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to create access token: %w", err)
	}
	return auth.AuthResponse{
		Token:                token,
		AccessTokenExpiresIn: expiresAt,
		User:                 user.NewUserResponse(u, a.fileService.URL),
	}, nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest) (auth.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := a.UserRepository.ExistsByEmail(ctx, email)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return auth.AuthResponse{}, user.ErrUserEmailExists
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.AuthResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created user.User
	var uploaded string
	err = a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		created, err = a.UserRepository.Create(txCtx, user.User{
			Email:        email,
			PasswordHash: hashed,
			Name:         strings.TrimSpace(req.Name),
			Phone:        strings.TrimSpace(req.Phone),
			Department:   strings.TrimSpace(req.Department),
			Role:         user.RoleEmployee,
			Status:       user.StatusOutOfOffice,
		})
		if err != nil {
			return err
		}

		if req.File == nil || req.FileHeader == nil {
			return nil
		}

		uploaded, err = a.fileService.UploadProfilePhoto(txCtx, created.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return err
		}
		created, err = a.UserRepository.UpdateProfile(txCtx, user.UpdateProfileRequest{ID: created.ID, PhotoURL: &uploaded})
		return err
	})
	if err != nil {
		if uploaded != "" {
			if delErr := a.fileService.DeleteFile(ctx, uploaded); delErr != nil {
				slog.Warn("failed to remove orphaned profile photo", "path", uploaded, "error", delErr)
			}
		}
		if errors.Is(err, user.ErrUserEmailExists) || errors.Is(err, file.ErrUnsupportedImage) {
			return auth.AuthResponse{}, err
		}
		return auth.AuthResponse{}, fmt.Errorf("failed to register user: %w", err)
	}

	slog.Info("user registered", "user_id", created.ID)
	return a.issue(created)
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.AuthResponse, error) {
	userData, err := a.UserRepository.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.AuthResponse{}, auth.ErrInvalidCredentials
		}
		return auth.AuthResponse{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.AuthResponse{}, auth.ErrInvalidCredentials
	}

	return a.issue(userData)
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, rawToken string) error {
	token, _, err := jwtauth.FromContext(ctx)
	if err != nil || token == nil || rawToken == "" {
		return auth.ErrInvalidToken
	}

	expiresAt := token.Expiration()
	if expiresAt.IsZero() {
		expiresAt = a.now().Add(24 * time.Hour)
	}
	a.Service.RevokeToken(rawToken, expiresAt)
	return nil
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context) (auth.StreamTokenResponse, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return auth.StreamTokenResponse{}, auth.ErrInvalidToken
	}

	token, expiresIn, err := a.Service.GenerateStreamToken(claims.UserID)
	if err != nil {
		return auth.StreamTokenResponse{}, fmt.Errorf("failed to create stream token: %w", err)
	}
	return auth.StreamTokenResponse{Token: token, ExpiresIn: expiresIn}, nil
}
