package user

import (
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/validator"
)

// UserResponse is the authenticated user's own profile
type UserResponse struct {
	ID              string  `json:"_id"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	Phone           string  `json:"phone"`
	Department      string  `json:"department"`
	PhotoURL        *string `json:"photoURL"`
	Role            string  `json:"role"`
	Status          string  `json:"status"`
	StatusUpdatedAt string  `json:"statusUpdatedAt"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// EmployeeDetailResponse is another employee's profile as seen from the directory
type EmployeeDetailResponse struct {
	UserResponse
	StatusUpdatedAgo string `json:"statusUpdatedAgo"`
}

// TeamMemberResponse is one row of the team directory
type TeamMemberResponse struct {
	ID              string  `json:"_id"`
	Name            string  `json:"name"`
	Department      string  `json:"department"`
	PhotoURL        *string `json:"photoURL"`
	Status          string  `json:"status"`
	StatusUpdatedAt string  `json:"statusUpdatedAt"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type ListTeamResponse struct {
	Users      []TeamMemberResponse `json:"users"`
	Pagination Pagination           `json:"pagination"`
}

// UpdateProfileRequest is a multipart update of the caller's profile
type UpdateProfileRequest struct {
	ID         string                `json:"-"`
	Department *string               `json:"department,omitempty"`
	Phone      *string               `json:"phone,omitempty"`
	PhotoURL   *string               `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *UpdateProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Department != nil {
		if validator.IsEmpty(*r.Department) {
			errs = append(errs, validator.ValidationError{
				Field:   "department",
				Message: "department must not be empty",
			})
		} else if len(*r.Department) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "department",
				Message: "department must not exceed 100 characters",
			})
		}
	}

	if r.Phone != nil && !validator.IsValidPhoneNumber(*r.Phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must contain 10 to 15 digits",
		})
	}

	if r.FileHeader != nil {
		if err := ValidatePhoto(r.FileHeader); err != nil {
			errs = append(errs, *err)
		}
	}

	if r.Department == nil && r.Phone == nil && r.FileHeader == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "profile",
			Message: ErrNothingToUpdate.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidatePhoto checks a profile photo upload: jpg, jpeg or png up to 5MB.
func ValidatePhoto(fh *multipart.FileHeader) *validator.ValidationError {
	filename := strings.ToLower(fh.Filename)
	dot := strings.LastIndex(filename, ".")
	ext := ""
	if dot >= 0 {
		ext = filename[dot:]
	}

	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return &validator.ValidationError{
			Field:   "photo",
			Message: "invalid file type: only jpg, jpeg, png allowed",
		}
	}
	if fh.Size > 5<<20 {
		return &validator.ValidationError{
			Field:   "photo",
			Message: "photo size must not exceed 5MB",
		}
	}
	return nil
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Status) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is required",
		})
	} else if !Status(r.Status).Valid() {
		valid := make([]string, 0, len(Statuses))
		for _, s := range Statuses {
			valid = append(valid, string(s))
		}
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: " + strings.Join(valid, ", "),
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TeamFilter struct {
	Search *string `json:"search,omitempty"`
	Status *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *TeamFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 10 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Search != nil {
		trimmed := strings.TrimSpace(*f.Search)
		if trimmed == "" {
			f.Search = nil
		} else {
			f.Search = &trimmed
		}
	}

	if f.Status != nil && !Status(*f.Status).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "invalid status filter",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Offset returns the number of rows to skip for the requested page.
func (f TeamFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// URLResolver turns a stored photo path into a public URL
type URLResolver func(path string) string

func (fn URLResolver) photoURL(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	if fn == nil {
		return p
	}
	url := fn(*p)
	return &url
}

func NewUserResponse(u User, resolve URLResolver) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Phone:           u.Phone,
		Department:      u.Department,
		PhotoURL:        resolve.photoURL(u.PhotoURL),
		Role:            string(u.Role),
		Status:          string(u.Status),
		StatusUpdatedAt: u.StatusUpdatedAt.UTC().Format(time.RFC3339),
		CreatedAt:       u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func NewTeamMemberResponse(u User, resolve URLResolver) TeamMemberResponse {
	return TeamMemberResponse{
		ID:              u.ID,
		Name:            u.Name,
		Department:      u.Department,
		PhotoURL:        resolve.photoURL(u.PhotoURL),
		Status:          string(u.Status),
		StatusUpdatedAt: u.StatusUpdatedAt.UTC().Format(time.RFC3339),
	}
}

// StatusUpdatedAgo renders the time since t, e.g. "just now" or "3 hours ago".
func StatusUpdatedAgo(now, t time.Time) string {
	diff := now.Sub(t)
	if diff < time.Minute {
		return "just now"
	}

	plural := func(n int, unit string) string {
		if n == 1 {
			return fmt.Sprintf("1 %s ago", unit)
		}
		return fmt.Sprintf("%d %ss ago", n, unit)
	}

	switch {
	case diff < time.Hour:
		return plural(int(diff/time.Minute), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff/time.Hour), "hour")
	default:
		return plural(int(diff/(24*time.Hour)), "day")
	}
}
