package domain

import "errors"

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Username errors
	ErrMsgEmptyUsername   = "no username provided"
	ErrMsgInvalidUsername = "username contains invalid characters"

	// Configuration errors
	ErrMsgNoConfig              = "no configuration file could be loaded"
	ErrMsgBackendNotConfigured  = "backend is not configured"
	ErrMsgNoBackendsConfigured  = "no chat backend is configured"
	ErrMsgInvalidConfigDocument = "configuration document is invalid"

	// Subprocess errors
	ErrMsgProcessTimedOut = "Process timed out"
	ErrMsgProcessInternal = "An internal error occurred while running Sherlock."
	ErrMsgProcessCanceled = "Process canceled"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrEmptyUsername   = errors.New(ErrMsgEmptyUsername)
	ErrInvalidUsername = errors.New(ErrMsgInvalidUsername)

	ErrNoConfig              = errors.New(ErrMsgNoConfig)
	ErrBackendNotConfigured  = errors.New(ErrMsgBackendNotConfigured)
	ErrNoBackendsConfigured  = errors.New(ErrMsgNoBackendsConfigured)
	ErrInvalidConfigDocument = errors.New(ErrMsgInvalidConfigDocument)
)
