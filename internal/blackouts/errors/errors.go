package errors

import "errors"

var (
	ErrNotFound = errors.New("blackout not found")

	ErrInvalidID = errors.New("invalid blackout ID format")
)
