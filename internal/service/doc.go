// Package service implements the business logic layer for the activities API.
//
// ActivityService owns the membership rules: an activity must exist, an email
// may appear at most once per activity, and only present emails can be
// removed. Capacity is advisory unless EnforceCapacity is set.
//
// # Repository Interfaces
//
// The service declares the repository interface it needs, so tests can
// substitute a fake and the in-memory repository stays swappable.
//
// # Error Handling
//
// Services return sentinel errors defined in errors.go:
//
//	var (
//	    ErrActivityNotFound = errors.New("activity not found")
//	    ErrAlreadySignedUp  = errors.New("student already signed up for this activity")
//	)
//
// # Events
//
// Successful membership changes are published to an EventHub, which fans
// them out to Server-Sent Events subscribers.
//
// # Example Usage
//
//	svc := NewActivityService(ActivityServiceConfig{
//	    Repo:   repository.NewActivityRepository(seed.MustDefault()),
//	    Events: hub,
//	})
//	change, err := svc.Signup(ctx, "Chess Club", "test@mergington.edu")
package service
