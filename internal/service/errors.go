package service

import "errors"

var (
	// ErrNotFound is returned when a task document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied is returned when the store's security rules or
	// credentials reject a request.
	ErrPermissionDenied = errors.New("permission denied")
)
