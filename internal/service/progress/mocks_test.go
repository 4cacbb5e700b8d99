package progress

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/store"
)

// memoryStore is an in-memory ProgressStore with the same version rules as
// the database stores. LoadFn and SaveFn override the default behavior.
type memoryStore struct {
	mu     sync.Mutex
	states map[uuid.UUID]domain.ProfileState
	saves  int
	loads  int

	LoadFn func(ctx context.Context, profileID uuid.UUID) (*domain.ProfileState, error)
	SaveFn func(ctx context.Context, state *domain.ProfileState) error
}

var _ store.ProgressStore = (*memoryStore)(nil)

func newMemoryStore() *memoryStore {
	return &memoryStore{states: make(map[uuid.UUID]domain.ProfileState)}
}

func (m *memoryStore) Load(ctx context.Context, profileID uuid.UUID) (*domain.ProfileState, error) {
	if m.LoadFn != nil {
		return m.LoadFn(ctx, profileID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.loads++
	state, ok := m.states[profileID]
	if !ok {
		return nil, store.ErrProfileNotFound
	}
	clone := state.Clone()
	return &clone, nil
}

func (m *memoryStore) Save(ctx context.Context, state *domain.ProfileState) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, state)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.states[state.Profile.ID]; ok && current.Version != state.Version {
		return store.NewStoreError("profile", "save", "stale version", store.ErrConflict)
	}
	state.Version++
	m.states[state.Profile.ID] = state.Clone()
	m.saves++
	return nil
}

func (m *memoryStore) ListProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(m.states))
	for id := range m.states {
		ids = append(ids, id)
	}
	return ids, nil
}

func (m *memoryStore) get(id uuid.UUID) (domain.ProfileState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.states[id]
	return state, ok
}

func (m *memoryStore) put(state domain.ProfileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[state.Profile.ID] = state
}
