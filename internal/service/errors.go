package service

import "errors"

var (
	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password; callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidRefreshToken covers missing, expired, used and revoked
	// refresh tokens alike.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrForbidden  = errors.New("forbidden")
)
