// Package helpers provides test utilities for the activities API.
//
// # Test Stack
//
// NewStack wires the seed catalog, repository, event hub, service and router
// the same way cmd/server does, without the network listener:
//
//	stack := helpers.NewStack(t, helpers.StackOptions{})
//	resp := helpers.NewRequest(t, http.MethodPost, "/activities/Chess%20Club/signup").
//		WithQuery("email", "new@mergington.edu").
//		Do(stack.Handler)
//
// # Assertion Helpers
//
//	helpers.AssertStatus(t, resp, http.StatusOK)
//	helpers.AssertProblemDetails(t, resp, http.StatusNotFound, model.ErrCodeNotFound)
//	helpers.AssertProblemDetail(t, resp, "Activity not found")
//	helpers.AssertValidationError(t, resp, "email")
package helpers
