// Package repository implements the data access layer for the activities API.
//
// There is no database. ActivityRepository owns the activity directory in
// process memory and is the only place that reads or writes it.
//
// # Concurrency
//
// A single sync.RWMutex guards the whole directory. Membership changes run
// their existence and duplicate checks in the same critical section as the
// write, so two concurrent signups of one email cannot both succeed. Reads
// hand out deep copies and never alias repository state.
//
// # Example Usage
//
//	repo := NewActivityRepository(seed.MustDefault())
//	activity, err := repo.AddParticipant(ctx, "Chess Club", "test@mergington.edu", false)
//	if errors.Is(err, ErrParticipantExists) {
//	    // Handle duplicate signup
//	}
package repository
