package errorvalues

import "errors"

var (
	ErrUserNotFound      = errors.New("user doesn't exist")
	ErrInvalidToken      = errors.New("invalid token")
	ErrSessionNotFound   = errors.New("session doesn't exist")
	ErrSessionRevoked    = errors.New("session revoked or expired")
	ErrHouseholdNotFound = errors.New("household doesn't exist")
	ErrNotMember         = errors.New("user is not a household member")
	ErrCategoryNotFound  = errors.New("category doesn't exist")
	ErrChoreNotFound     = errors.New("chore doesn't exist")
	ErrEntryNotFound     = errors.New("registry entry doesn't exist")
	ErrBadDateFilter     = errors.New("unknown date filter")
	ErrValidation        = errors.New("validation failed")
)
