package postgres

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/store"
	"github.com/kofadam/asahi-x-family/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testDBOnce sync.Once
	testDB     *sql.DB
	testDBErr  error
)

// openTestDB connects to DATABASE_URL once per package run and migrates it.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL not set; skipping PostgreSQL integration tests")
	}

	testDBOnce.Do(func() {
		ctx := context.Background()
		testDB, testDBErr = Open(ctx, url, 4)
		if testDBErr != nil {
			return
		}
		testDBErr = Migrate(ctx, testDB, "up", nil)
	})
	require.NoError(t, testDBErr)
	return testDB
}

// trackingStore deletes every profile it saved when the test ends.
type trackingStore struct {
	*PostgresProgressStore
	mu  sync.Mutex
	ids []uuid.UUID
}

func (s *trackingStore) Save(ctx context.Context, state *domain.ProfileState) error {
	if state != nil {
		s.mu.Lock()
		s.ids = append(s.ids, state.Profile.ID)
		s.mu.Unlock()
	}
	return s.PostgresProgressStore.Save(ctx, state)
}

func newTrackingStore(t *testing.T, db *sql.DB) *trackingStore {
	s := &trackingStore{PostgresProgressStore: NewPostgresProgressStore(db, nil)}
	t.Cleanup(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, id := range s.ids {
			_, _ = db.Exec(`DELETE FROM profiles WHERE id = $1`, id)
		}
	})
	return s
}

func TestPostgresProgressStore(t *testing.T) {
	db := openTestDB(t)

	storetest.RunProgressStoreTests(t, func(t *testing.T) store.ProgressStore {
		return newTrackingStore(t, db)
	})
}

func TestPostgresProgressStore_WithTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback() })

	s := NewPostgresProgressStore(db, nil).WithTx(tx)
	state := storetest.NewState(t)
	require.NoError(t, s.Save(ctx, state))

	got, err := s.Load(ctx, state.Profile.ID)
	require.NoError(t, err)
	storetest.AssertStateEqual(t, state, got)

	// Not visible outside the uncommitted transaction.
	_, err = NewPostgresProgressStore(db, nil).Load(ctx, state.Profile.ID)
	assert.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestPostgresProgressStore_DeleteCascadesItems(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	s := newTrackingStore(t, db)
	state := storetest.NewState(t)
	require.NoError(t, s.Save(ctx, state))

	_, err := db.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, state.Profile.ID)
	require.NoError(t, err)

	var count int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM review_items WHERE profile_id = $1`, state.Profile.ID).Scan(&count))
	assert.Zero(t, count)
}

func TestNewPostgresProgressStore_NilDB(t *testing.T) {
	assert.Panics(t, func() { NewPostgresProgressStore(nil, nil) })
}
