package service

import "errors"

var (
	// ErrValidation marks malformed or incomplete request payloads.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers both "does not exist" and "exists but is not
	// yours". Handlers must not distinguish the two.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks staff-only operations attempted by non-staff.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidTransition marks a status update outside the transition
	// graph.
	ErrInvalidTransition = errors.New("invalid status transition")
)
