package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrUserEmailExists        = errors.New("email already registered")
	ErrInvalidStatus          = errors.New("invalid work status")
	ErrNothingToUpdate        = errors.New("no profile fields to update")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
