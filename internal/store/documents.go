package store

import (
	"encoding/json"
	"fmt"

	"github.com/kofadam/asahi-x-family/internal/domain"
)

// Documents are the JSON-encoded parts of a profile state that stores keep
// in document columns rather than in relational columns.
type Documents struct {
	Achievements []byte
	Preferences  []byte
	Progress     []byte
	Streak       []byte
}

// EncodeDocuments serializes the document parts of state.
func EncodeDocuments(state *domain.ProfileState) (Documents, error) {
	var (
		docs Documents
		err  error
	)

	achievements := state.Profile.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	if docs.Achievements, err = json.Marshal(achievements); err != nil {
		return Documents{}, fmt.Errorf("encoding achievements: %w", err)
	}
	if docs.Preferences, err = json.Marshal(state.Profile.Preferences); err != nil {
		return Documents{}, fmt.Errorf("encoding preferences: %w", err)
	}
	if docs.Progress, err = json.Marshal(state.Progress); err != nil {
		return Documents{}, fmt.Errorf("encoding progress: %w", err)
	}
	if docs.Streak, err = json.Marshal(state.Streak); err != nil {
		return Documents{}, fmt.Errorf("encoding streak: %w", err)
	}
	return docs, nil
}

// DecodeInto fills the document parts of state.
func (d Documents) DecodeInto(state *domain.ProfileState) error {
	if err := json.Unmarshal(d.Achievements, &state.Profile.Achievements); err != nil {
		return fmt.Errorf("decoding achievements: %w", err)
	}
	if err := json.Unmarshal(d.Preferences, &state.Profile.Preferences); err != nil {
		return fmt.Errorf("decoding preferences: %w", err)
	}
	if err := json.Unmarshal(d.Progress, &state.Progress); err != nil {
		return fmt.Errorf("decoding progress: %w", err)
	}
	if err := json.Unmarshal(d.Streak, &state.Streak); err != nil {
		return fmt.Errorf("decoding streak: %w", err)
	}

	if state.Profile.Achievements == nil {
		state.Profile.Achievements = []string{}
	}
	if state.Progress.Lessons == nil {
		state.Progress.Lessons = map[string]domain.ProgressRecord{}
	}
	return nil
}
