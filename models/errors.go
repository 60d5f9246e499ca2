package models

import "errors"

// Domain errors shared by repositories, services and controllers
var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidID        = errors.New("invalid id")
	ErrInvalidInput     = errors.New("invalid input")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNoActiveEntries  = errors.New("no active entries")
	ErrConflict         = errors.New("conflict")
	ErrNotConfigured    = errors.New("not configured")
)
