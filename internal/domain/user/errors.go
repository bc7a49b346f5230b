package user

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
	ErrPasswordMismatch   = errors.New("password confirmation does not match")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user is disabled")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenNotConfigured = errors.New("token secret not configured")
	ErrLastAdmin          = errors.New("cannot remove the last active admin")
)
