package repository

import "errors"

// ErrNotFound is returned when no import runs are found.
var ErrNotFound = errors.New("not found")
