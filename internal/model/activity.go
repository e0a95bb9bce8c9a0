package model

import "slices"

// Activity is a single extracurricular offering.
// MaxParticipants is advisory unless capacity enforcement is turned on.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// ActivityDirectory maps activity name to activity
type ActivityDirectory map[string]Activity

// Clone returns a deep copy. Participants is never nil in the copy.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// HasParticipant reports whether email is signed up
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// IsFull reports whether the participant list has reached MaxParticipants
func (a Activity) IsFull() bool {
	return a.MaxParticipants > 0 && len(a.Participants) >= a.MaxParticipants
}

// SpotsLeft returns the remaining advisory capacity, never negative
func (a Activity) SpotsLeft() int {
	left := a.MaxParticipants - len(a.Participants)
	if left < 0 {
		return 0
	}
	return left
}

// Clone returns a deep copy of the directory
func (d ActivityDirectory) Clone() ActivityDirectory {
	out := make(ActivityDirectory, len(d))
	for name, activity := range d {
		out[name] = activity.Clone()
	}
	return out
}

// Names returns the activity names in sorted order
func (d ActivityDirectory) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// MessageResponse is the body of a successful membership change
type MessageResponse struct {
	Message string `json:"message"`
}
