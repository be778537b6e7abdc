package domain

import "errors"

// Common domain errors
var (
	// ErrNotFound is returned when a requested resource is not found
	ErrNotFound = errors.New("resource not found")
	// ErrAlreadyExists is returned when trying to create a resource that already exists
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrUnauthorized is returned when a user is not authorized to perform an action
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when a user is not allowed to perform an action
	ErrForbidden = errors.New("forbidden")
)

// Import and export errors
var (
	// ErrUnsupportedFormat is returned when no importer is registered for a bank format.
	ErrUnsupportedFormat = errors.New("unsupported bank format")
	// ErrDecode is returned when an uploaded statement cannot be decoded or split into rows.
	ErrDecode = errors.New("cannot decode statement")
	// ErrProfileIncomplete is returned when the user has not provided first and last name.
	ErrProfileIncomplete = errors.New("profile incomplete")
	// ErrNoBankAccount is returned when the user owns no bank account yet.
	ErrNoBankAccount = errors.New("no bank account")
	// ErrUploadTooLarge is returned when an uploaded statement exceeds the configured limit.
	ErrUploadTooLarge = errors.New("upload too large")
)
