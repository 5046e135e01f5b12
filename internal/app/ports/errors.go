package ports

import "errors"

// Store adapters translate their backend errors into these sentinels;
// anything else that bubbles up is an infrastructure failure the caller
// may retry.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)
