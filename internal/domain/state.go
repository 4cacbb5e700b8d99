package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ProfileState is everything the engine knows about one learner. It is the
// unit the Progress Store loads and saves; a save always writes all of it.
type ProfileState struct {
	Profile  UserProfile  `json:"profile"`
	Progress Progress     `json:"progress"`
	Streak   StreakState  `json:"streak"`
	Items    []ReviewItem `json:"items"`
	Version  int          `json:"version"`
}

// NewProfileState creates the state of a learner on first use.
func NewProfileState(id uuid.UUID, now time.Time) (*ProfileState, error) {
	profile, err := NewUserProfile(id, now)
	if err != nil {
		return nil, err
	}
	return &ProfileState{
		Profile:  *profile,
		Progress: NewProgress(),
		Items:    []ReviewItem{},
	}, nil
}

// Clone returns a deep copy so pure operations never alias their input.
func (s ProfileState) Clone() ProfileState {
	return ProfileState{
		Profile:  s.Profile.Clone(),
		Progress: s.Progress.Clone(),
		Streak:   s.Streak.Clone(),
		Items:    slices.Clone(s.Items),
		Version:  s.Version,
	}
}

// FindItem returns the index of the item with the given id.
func (s ProfileState) FindItem(id uuid.UUID) (int, bool) {
	idx := slices.IndexFunc(s.Items, func(it ReviewItem) bool { return it.ID == id })
	return idx, idx >= 0
}
