package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateReference is returned when a booking reference is already taken.
	ErrDuplicateReference = errors.New("booking reference already exists")
)
