package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// ============================================================================
// Error() Interface Tests
// ============================================================================

func TestProblemDetails_Error_ReturnsFormattedMessage(t *testing.T) {
	t.Parallel()

	pd := &ProblemDetails{
		Status: http.StatusNotFound,
		Title:  "Not Found",
		Detail: "Activity not found",
	}

	errMsg := pd.Error()

	if !strings.Contains(errMsg, "404") {
		t.Errorf("error message should contain status code, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "Not Found") {
		t.Errorf("error message should contain title, got: %s", errMsg)
	}
	if !strings.Contains(errMsg, "Activity not found") {
		t.Errorf("error message should contain detail, got: %s", errMsg)
	}
}

// ============================================================================
// WriteJSON Tests
// ============================================================================

func TestProblemDetails_WriteJSON_SetsContentType(t *testing.T) {
	t.Parallel()

	pd := NewNotFoundError("Activity not found")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	contentType := rr.Header().Get("Content-Type")
	if contentType != "application/problem+json" {
		t.Errorf("expected Content-Type 'application/problem+json', got %q", contentType)
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestProblemDetails_WriteJSON_EncodesDetail(t *testing.T) {
	t.Parallel()

	pd := NewMembershipConflictError("Student already signed up for this activity")
	rr := httptest.NewRecorder()

	pd.WriteJSON(rr)

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body["detail"] != "Student already signed up for this activity" {
		t.Errorf("unexpected detail %v", body["detail"])
	}
	if body["status"] != float64(http.StatusBadRequest) {
		t.Errorf("unexpected status %v", body["status"])
	}
}

// ============================================================================
// Constructor Tests
// ============================================================================

func TestNewNotFoundError_PassesDetailThrough(t *testing.T) {
	t.Parallel()

	pd := NewNotFoundError("Activity not found")

	if pd.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", pd.Status)
	}
	if pd.Detail != "Activity not found" {
		t.Errorf("expected verbatim detail, got %q", pd.Detail)
	}
	if pd.Code != ErrCodeNotFound {
		t.Errorf("expected code %d, got %d", ErrCodeNotFound, pd.Code)
	}
}

func TestNewMembershipConflictError_Is400(t *testing.T) {
	t.Parallel()

	pd := NewMembershipConflictError("Student is not signed up for this activity")

	if pd.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", pd.Status)
	}
	if pd.Code != ErrCodeConflict {
		t.Errorf("expected code %d, got %d", ErrCodeConflict, pd.Code)
	}
}

func TestNewValidationError_SingleField(t *testing.T) {
	t.Parallel()

	pd := NewValidationError([]FieldError{{Field: "email", Location: "query", Message: "field required"}})

	if pd.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", pd.Status)
	}
	if pd.Detail != "email: field required" {
		t.Errorf("unexpected detail %q", pd.Detail)
	}
	if len(pd.Errors) != 1 {
		t.Errorf("expected 1 field error, got %d", len(pd.Errors))
	}
}

func TestNewValidationError_MultipleFields_SummarizesCount(t *testing.T) {
	t.Parallel()

	pd := NewValidationError([]FieldError{
		{Field: "activity_name", Message: "field required"},
		{Field: "email", Message: "field required"},
	})

	if !strings.Contains(pd.Detail, "and 1 more errors") {
		t.Errorf("expected summarized detail, got %q", pd.Detail)
	}
}

func TestNewValidationError_EmptyErrors_ReturnsDefaultMessage(t *testing.T) {
	t.Parallel()

	pd := NewValidationError(nil)

	if pd.Detail != "One or more fields failed validation" {
		t.Errorf("unexpected default detail %q", pd.Detail)
	}
}

func TestNewInternalError_EmptyDetail_UsesDefault(t *testing.T) {
	t.Parallel()

	pd := NewInternalError("")

	if pd.Detail != "An unexpected error occurred" {
		t.Errorf("unexpected detail %q", pd.Detail)
	}
	if pd.Status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", pd.Status)
	}
}

func TestNewRateLimitError_IncludesRetryAfter(t *testing.T) {
	t.Parallel()

	pd := NewRateLimitError(30)

	if pd.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", pd.Status)
	}
	if !strings.Contains(pd.Detail, "30 seconds") {
		t.Errorf("expected retry hint in detail, got %q", pd.Detail)
	}
}
