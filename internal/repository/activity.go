package repository

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/mergington/activities/internal/model"
)

var (
	ErrActivityNotFound   = errors.New("activity not found")
	ErrParticipantExists  = errors.New("participant already present")
	ErrParticipantMissing = errors.New("participant not present")
	ErrCapacityReached    = errors.New("activity at capacity")
)

// ActivityRepository handles activity data access
type ActivityRepository struct {
	mu         sync.RWMutex
	activities model.ActivityDirectory
}

// NewActivityRepository creates a repository that owns a private copy of seed
func NewActivityRepository(seed model.ActivityDirectory) *ActivityRepository {
	return &ActivityRepository{activities: seed.Clone()}
}

// List returns a snapshot of every activity
func (r *ActivityRepository) List(ctx context.Context) (model.ActivityDirectory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activities.Clone(), nil
}

// GetByName retrieves an activity by exact name. Returns nil, nil when absent.
func (r *ActivityRepository) GetByName(ctx context.Context, name string) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, nil
	}
	clone := activity.Clone()
	return &clone, nil
}

// AddParticipant appends email to the named activity's participants.
// When limitCapacity is set, a full activity yields ErrCapacityReached.
func (r *ActivityRepository) AddParticipant(ctx context.Context, name, email string, limitCapacity bool) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	if activity.HasParticipant(email) {
		return nil, ErrParticipantExists
	}
	if limitCapacity && activity.IsFull() {
		return nil, ErrCapacityReached
	}

	activity.Participants = append(activity.Participants, email)
	r.activities[name] = activity

	clone := activity.Clone()
	return &clone, nil
}

// RemoveParticipant removes email from the named activity, keeping the order
// of the remaining participants.
func (r *ActivityRepository) RemoveParticipant(ctx context.Context, name, email string) (*model.Activity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return nil, ErrActivityNotFound
	}
	idx := slices.Index(activity.Participants, email)
	if idx < 0 {
		return nil, ErrParticipantMissing
	}

	activity.Participants = slices.Delete(activity.Participants, idx, idx+1)
	r.activities[name] = activity

	clone := activity.Clone()
	return &clone, nil
}

// Count returns the number of activities
func (r *ActivityRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.activities)
}
