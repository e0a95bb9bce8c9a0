package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivity_Clone_IsIndependent(t *testing.T) {
	t.Parallel()

	original := Activity{
		Description:     "Learn strategies",
		Schedule:        "Fridays",
		MaxParticipants: 12,
		Participants:    []string{"michael@mergington.edu"},
	}

	clone := original.Clone()
	clone.Participants = append(clone.Participants, "test@mergington.edu")
	clone.Participants[0] = "changed@mergington.edu"

	assert.Equal(t, []string{"michael@mergington.edu"}, original.Participants)
}

func TestActivity_Clone_NilParticipantsBecomesEmpty(t *testing.T) {
	t.Parallel()

	clone := Activity{Description: "x"}.Clone()

	require.NotNil(t, clone.Participants)
	data, err := json.Marshal(clone)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"participants":[]`)
}

func TestActivity_JSON_HasExactlyFourKeys(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Activity{Participants: []string{}})
	require.NoError(t, err)

	var keys map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &keys))

	assert.Len(t, keys, 4)
	for _, k := range []string{"description", "schedule", "max_participants", "participants"} {
		assert.Contains(t, keys, k)
	}
}

func TestActivity_HasParticipant_ExactMatch(t *testing.T) {
	t.Parallel()

	a := Activity{Participants: []string{"emma@mergington.edu"}}

	assert.True(t, a.HasParticipant("emma@mergington.edu"))
	assert.False(t, a.HasParticipant("EMMA@mergington.edu"))
	assert.False(t, a.HasParticipant(""))
}

func TestActivity_IsFull(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		activity Activity
		want     bool
	}{
		{"empty", Activity{MaxParticipants: 2, Participants: []string{}}, false},
		{"one left", Activity{MaxParticipants: 2, Participants: []string{"a"}}, false},
		{"at capacity", Activity{MaxParticipants: 2, Participants: []string{"a", "b"}}, true},
		{"over capacity", Activity{MaxParticipants: 1, Participants: []string{"a", "b"}}, true},
		{"no capacity set", Activity{Participants: []string{"a"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.activity.IsFull())
		})
	}
}

func TestActivity_SpotsLeft_NeverNegative(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, Activity{MaxParticipants: 2, Participants: []string{"a"}}.SpotsLeft())
	assert.Equal(t, 0, Activity{MaxParticipants: 1, Participants: []string{"a", "b"}}.SpotsLeft())
}

func TestActivityDirectory_Clone_DeepCopies(t *testing.T) {
	t.Parallel()

	dir := ActivityDirectory{
		"Chess Club": {Participants: []string{"michael@mergington.edu"}},
	}

	clone := dir.Clone()
	a := clone["Chess Club"]
	a.Participants[0] = "other@mergington.edu"

	assert.Equal(t, "michael@mergington.edu", dir["Chess Club"].Participants[0])
}

func TestActivityDirectory_Names_Sorted(t *testing.T) {
	t.Parallel()

	dir := ActivityDirectory{"Soccer Team": {}, "Art Workshop": {}, "Chess Club": {}}

	assert.Equal(t, []string{"Art Workshop", "Chess Club", "Soccer Team"}, dir.Names())
}
