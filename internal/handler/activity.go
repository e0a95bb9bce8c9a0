package handler

import (
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mergington/activities/internal/middleware"
	"github.com/mergington/activities/internal/model"
	"github.com/mergington/activities/internal/service"
)

// ActivityHandler serves the activity directory and membership endpoints
type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

// NewActivityHandler creates a new activity handler. A nil logger is
// replaced by a no-op logger.
func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{
		activityService: activityService,
		logger:          logger,
	}
}

// membershipParams are the inputs shared by signup and unregister
type membershipParams struct {
	ActivityName string // path: activity_name
	Email        string // query: email
}

// bindMembershipParams reads activity_name from the path and email from the
// query string. Each missing or empty value yields one field error.
func bindMembershipParams(r *http.Request) (membershipParams, []model.FieldError) {
	params := membershipParams{
		ActivityName: r.PathValue("activity_name"),
		Email:        r.URL.Query().Get("email"),
	}

	var fieldErrors []model.FieldError
	if params.ActivityName == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "activity_name", Location: "path", Message: "is required"})
	}
	if params.Email == "" {
		fieldErrors = append(fieldErrors, model.FieldError{Field: "email", Location: "query", Message: "is required"})
	}
	return params, fieldErrors
}

// List handles GET /activities
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	activities, err := h.activityService.ListActivities(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, activities)
}

// Get handles GET /activities/{activity_name}
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	activity, err := h.activityService.GetActivity(r.Context(), r.PathValue("activity_name"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, activity)
}

// Signup handles POST /activities/{activity_name}/signup?email=
func (h *ActivityHandler) Signup(w http.ResponseWriter, r *http.Request) {
	params, fieldErrors := bindMembershipParams(r)
	if len(fieldErrors) > 0 {
		WriteError(w, r, model.NewValidationError(fieldErrors))
		return
	}

	change, err := h.activityService.Signup(r.Context(), params.ActivityName, params.Email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteMessage(w, fmt.Sprintf("Signed up %s for %s", change.Email, change.ActivityName))
}

// Unregister handles POST /activities/{activity_name}/unregister?email=
func (h *ActivityHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	params, fieldErrors := bindMembershipParams(r)
	if len(fieldErrors) > 0 {
		WriteError(w, r, model.NewValidationError(fieldErrors))
		return
	}

	change, err := h.activityService.Unregister(r.Context(), params.ActivityName, params.Email)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	WriteMessage(w, fmt.Sprintf("Removed %s from %s", change.Email, change.ActivityName))
}

func (h *ActivityHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := MapServiceError(err)
	if problem.Status >= http.StatusInternalServerError {
		h.logger.Error("activity request failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}
	WriteError(w, r, problem)
}
