package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
)

// ProgressStore persists complete learner states.
type ProgressStore interface {
	// Load returns the state of a profile.
	// Returns ErrProfileNotFound if the profile has never been saved.
	Load(ctx context.Context, profileID uuid.UUID) (*domain.ProfileState, error)

	// Save writes the whole state atomically: profile, progress, streak and
	// every review item. Items missing from state are removed.
	// The stored version must equal state.Version; on success state.Version
	// is incremented. Returns ErrConflict when the stored version differs.
	Save(ctx context.Context, state *domain.ProfileState) error

	// ListProfileIDs returns the ids of all stored profiles.
	ListProfileIDs(ctx context.Context) ([]uuid.UUID, error)
}
