package entities

import "errors"

// Sentinel errors returned by repositories
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
)
