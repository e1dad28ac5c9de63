package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/calendar"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-backend-go/internal/service/file"
)

// Domain error codes
const (
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeEmailExists          = "EMAIL_EXISTS"
	CodeInvalidStatus        = "INVALID_STATUS"
	CodeNothingToUpdate      = "NOTHING_TO_UPDATE"
	CodeAdminRequired        = "ADMIN_REQUIRED"
	CodeUnsupportedImage     = "UNSUPPORTED_IMAGE"
	CodeAlreadyMarked        = "ATTENDANCE_ALREADY_MARKED"
	CodeOutsideAllowedRadius = "OUTSIDE_ALLOWED_RADIUS"
	CodeAttendanceNotFound   = "ATTENDANCE_NOT_FOUND"
	CodeInvalidCoordinate    = "INVALID_COORDINATE"
	CodeInvalidMonth         = "INVALID_MONTH"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, CodeInvalidCredentials, err.Error(), nil)
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Fail(w, http.StatusUnauthorized, CodeInvalidToken, "Invalid or expired token", nil)

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		Fail(w, http.StatusNotFound, CodeUserNotFound, "User not found", nil)
	case errors.Is(err, user.ErrUserEmailExists):
		Fail(w, http.StatusConflict, CodeEmailExists, "Email already registered", nil)
	case errors.Is(err, user.ErrInvalidStatus):
		Fail(w, http.StatusBadRequest, CodeInvalidStatus, "Invalid work status", nil)
	case errors.Is(err, user.ErrNothingToUpdate):
		Fail(w, http.StatusBadRequest, CodeNothingToUpdate, err.Error(), nil)
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Fail(w, http.StatusForbidden, CodeAdminRequired, "Admin privilege required", nil)
	case errors.Is(err, file.ErrUnsupportedImage):
		Fail(w, http.StatusBadRequest, CodeUnsupportedImage, "Unsupported image", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyMarked):
		Fail(w, http.StatusConflict, CodeAlreadyMarked, "Attendance already marked for today", nil)
	case errors.Is(err, attendance.ErrOutsideAllowedRadius):
		Fail(w, http.StatusForbidden, CodeOutsideAllowedRadius, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		Fail(w, http.StatusNotFound, CodeAttendanceNotFound, "Attendance not found", nil)
	case errors.Is(err, geo.ErrInvalidCoordinate):
		Fail(w, http.StatusBadRequest, CodeInvalidCoordinate, "Invalid coordinate", nil)
	case errors.Is(err, calendar.ErrInvalidMonth):
		Fail(w, http.StatusBadRequest, CodeInvalidMonth, "Invalid month", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
