package model

import "errors"

// Error variables for store operations.
var (
	ErrNotFound     = errors.New("not found")
	ErrInconsistent = errors.New("inconsistent state")
	ErrStorage      = errors.New("storage failure")
	ErrMalformed    = errors.New("malformed database")
)
