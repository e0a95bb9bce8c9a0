package service

import "errors"

// Centralized service layer errors.
// Handlers map these to HTTP responses in handler.MapServiceError.

// ===== Activity Errors =====
var (
	ErrActivityNotFound = errors.New("activity not found")
	ErrAlreadySignedUp  = errors.New("student already signed up for this activity")
	ErrNotSignedUp      = errors.New("student is not signed up for this activity")
	ErrActivityFull     = errors.New("activity is full")
)

// ===== Input Errors =====
var (
	ErrActivityNameRequired = errors.New("activity name is required")
	ErrEmailRequired        = errors.New("email is required")
)
