package models

import "errors"

// Errors shared by the storage and service layers. Wrap them, match with errors.Is.
var (
	ErrInvalid  = errors.New("invalid request")
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
