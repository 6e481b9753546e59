package services

import "errors"

// Sentinel errors shared by the services and the HTTP error mapper.
var (
	ErrValidationFailed = errors.New("validation failed")

	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTeamMemberNotFound = errors.New("team member not found")
	ErrUserNotFound       = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserEmailConflict  = errors.New("email address is already in use")

	ErrStorageDisabled      = errors.New("image storage is not configured")
	ErrUnsupportedImageType = errors.New("unsupported image content type")
)
