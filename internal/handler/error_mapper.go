package handler

import (
	"errors"

	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/service"
)

// Client-facing details. These strings are part of the API contract.
const (
	detailActivityNotFound = "Activity not found"
	detailAlreadySignedUp  = "Student already signed up for this activity"
	detailNotSignedUp      = "Student is not signed up for this activity"
	detailActivityFull     = "Activity is full"
)

// MapServiceError converts a service error to a ProblemDetails response.
// It returns nil for a nil error; unknown errors map to a generic 500.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Not Found → 404 =====
	case errors.Is(err, service.ErrActivityNotFound):
		return model.NewNotFoundError(detailActivityNotFound)

	// ===== Membership conflicts → 400 =====
	case errors.Is(err, service.ErrAlreadySignedUp):
		return model.NewMembershipConflictError(detailAlreadySignedUp)
	case errors.Is(err, service.ErrNotSignedUp):
		return model.NewMembershipConflictError(detailNotSignedUp)
	case errors.Is(err, service.ErrActivityFull):
		return model.NewMembershipConflictError(detailActivityFull)

	// ===== Validation → 422 =====
	case errors.Is(err, service.ErrActivityNameRequired):
		return model.NewValidationError([]model.FieldError{{Field: "activity_name", Location: "path", Message: err.Error()}})
	case errors.Is(err, service.ErrEmailRequired):
		return model.NewValidationError([]model.FieldError{{Field: "email", Location: "query", Message: err.Error()}})

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}
