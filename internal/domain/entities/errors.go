package entities

import "errors"

// Domain errors
var (
	// Auth errors
	ErrInvalidRole  = errors.New("invalid role")
	ErrInvalidToken = errors.New("invalid token")

	// Task errors
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPlanFilter = errors.New("invalid plan filter")

	// Preference errors
	ErrPreferenceNotFound = errors.New("preference not found")

	// Backend errors
	ErrRemoteNotFound     = errors.New("remote resource not found")
	ErrRemoteUnauthorized = errors.New("remote rejected credentials")

	// Generic errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)
