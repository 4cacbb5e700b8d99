package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/store"
)

const (
	selectProfileSQL = `
		SELECT id, total_xp, level, streak_count, last_activity_date,
		       achievements, preferences, progress, streak, version, created_at, updated_at
		FROM profiles
		WHERE id = ?`

	selectItemsSQL = `
		SELECT id, content_ref, state, difficulty, stability, elapsed_days, scheduled_interval,
		       last_reviewed_at, next_review_at, review_count, lapses
		FROM review_items
		WHERE profile_id = ?
		ORDER BY next_review_at, id`

	upsertProfileSQL = `
		INSERT INTO profiles (id, total_xp, level, streak_count, last_activity_date,
		                      achievements, preferences, progress, streak, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			total_xp = excluded.total_xp,
			level = excluded.level,
			streak_count = excluded.streak_count,
			last_activity_date = excluded.last_activity_date,
			achievements = excluded.achievements,
			preferences = excluded.preferences,
			progress = excluded.progress,
			streak = excluded.streak,
			version = excluded.version,
			updated_at = excluded.updated_at
		WHERE profiles.version = ?`

	deleteItemsSQL = `DELETE FROM review_items WHERE profile_id = ?`

	insertItemSQL = `
		INSERT INTO review_items (id, profile_id, content_ref, state, difficulty, stability,
		                          elapsed_days, scheduled_interval, last_reviewed_at, next_review_at,
		                          review_count, lapses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	listProfileIDsSQL = `SELECT id FROM profiles ORDER BY id`
)

type profileRow struct {
	ID               uuid.UUID      `db:"id"`
	TotalXP          int            `db:"total_xp"`
	Level            int            `db:"level"`
	StreakCount      int            `db:"streak_count"`
	LastActivityDate sql.NullString `db:"last_activity_date"`
	Achievements     string         `db:"achievements"`
	Preferences      string         `db:"preferences"`
	Progress         string         `db:"progress"`
	Streak           string         `db:"streak"`
	Version          int            `db:"version"`
	CreatedAt        int64          `db:"created_at"`
	UpdatedAt        int64          `db:"updated_at"`
}

type itemRow struct {
	ID                uuid.UUID `db:"id"`
	ContentRef        string    `db:"content_ref"`
	State             string    `db:"state"`
	Difficulty        float64   `db:"difficulty"`
	Stability         float64   `db:"stability"`
	ElapsedDays       float64   `db:"elapsed_days"`
	ScheduledInterval float64   `db:"scheduled_interval"`
	LastReviewedAt    int64     `db:"last_reviewed_at"`
	NextReviewAt      int64     `db:"next_review_at"`
	ReviewCount       int       `db:"review_count"`
	Lapses            int       `db:"lapses"`
}

func (r itemRow) toDomain() domain.ReviewItem {
	return domain.ReviewItem{
		ID:                r.ID,
		ContentRef:        r.ContentRef,
		State:             domain.ItemState(r.State),
		Difficulty:        r.Difficulty,
		Stability:         r.Stability,
		ElapsedDays:       r.ElapsedDays,
		ScheduledInterval: r.ScheduledInterval,
		LastReviewedAt:    fromNanos(r.LastReviewedAt),
		NextReviewAt:      fromNanos(r.NextReviewAt),
		ReviewCount:       r.ReviewCount,
		Lapses:            r.Lapses,
	}
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// SQLiteProgressStore implements the store.ProgressStore interface
// on an embedded SQLite database.
type SQLiteProgressStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// Ensure SQLiteProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*SQLiteProgressStore)(nil)

// NewSQLiteProgressStore creates a new SQLite implementation of the
// ProgressStore interface. The connection is owned by the caller.
func NewSQLiteProgressStore(db *sqlx.DB, logger *slog.Logger) *SQLiteProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil for SQLiteProgressStore")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_progress_store")),
	}
}

// Load implements store.ProgressStore.Load
func (s *SQLiteProgressStore) Load(ctx context.Context, profileID uuid.UUID) (*domain.ProfileState, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, store.NewStoreError("profile", "load", "failed to begin read", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row profileRow
	err = tx.GetContext(ctx, &row, selectProfileSQL, profileID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("profile", "load", "failed to query profile", MapError(err))
	}

	state := domain.ProfileState{
		Profile: domain.UserProfile{
			ID:          row.ID,
			TotalXP:     row.TotalXP,
			Level:       row.Level,
			StreakCount: row.StreakCount,
			CreatedAt:   fromNanos(row.CreatedAt),
			UpdatedAt:   fromNanos(row.UpdatedAt),
		},
		Version: row.Version,
	}
	if row.LastActivityDate.Valid && row.LastActivityDate.String != "" {
		date, err := domain.ParseDate(row.LastActivityDate.String)
		if err != nil {
			return nil, store.NewStoreError("profile", "load", "corrupt last activity date", err)
		}
		state.Profile.LastActivityDate = date
	}

	docs := store.Documents{
		Achievements: []byte(row.Achievements),
		Preferences:  []byte(row.Preferences),
		Progress:     []byte(row.Progress),
		Streak:       []byte(row.Streak),
	}
	if err := docs.DecodeInto(&state); err != nil {
		return nil, store.NewStoreError("profile", "load", "corrupt profile document", err)
	}

	var rows []itemRow
	if err := tx.SelectContext(ctx, &rows, selectItemsSQL, profileID); err != nil {
		return nil, store.NewStoreError("review_item", "load", "failed to query review items", MapError(err))
	}
	state.Items = make([]domain.ReviewItem, 0, len(rows))
	for _, r := range rows {
		state.Items = append(state.Items, r.toDomain())
	}

	return &state, nil
}

// Save implements store.ProgressStore.Save
func (s *SQLiteProgressStore) Save(ctx context.Context, state *domain.ProfileState) error {
	if state == nil {
		return store.NewStoreError("profile", "save", "nil state", store.ErrInvalidEntity)
	}
	if err := state.Profile.Validate(); err != nil {
		return store.NewStoreError("profile", "save", "invalid profile",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}

	docs, err := store.EncodeDocuments(state)
	if err != nil {
		return store.NewStoreError("profile", "save", "failed to encode profile", err)
	}

	err = store.RunInTransaction(ctx, s.db.DB, func(ctx context.Context, tx *sql.Tx) error {
		return s.save(ctx, tx, state, docs)
	})
	if err != nil {
		return err
	}

	state.Version++
	s.logger.DebugContext(ctx, "saved profile state",
		slog.String("profile_id", state.Profile.ID.String()),
		slog.Int("version", state.Version),
		slog.Int("items", len(state.Items)))
	return nil
}

func (s *SQLiteProgressStore) save(
	ctx context.Context,
	q store.DBTX,
	state *domain.ProfileState,
	docs store.Documents,
) error {
	p := state.Profile

	var lastActivity sql.NullString
	if !p.LastActivityDate.IsZero() {
		lastActivity = sql.NullString{String: p.LastActivityDate.String(), Valid: true}
	}

	result, err := q.ExecContext(ctx, upsertProfileSQL,
		p.ID,
		p.TotalXP,
		p.Level,
		p.StreakCount,
		lastActivity,
		string(docs.Achievements),
		string(docs.Preferences),
		string(docs.Progress),
		string(docs.Streak),
		state.Version+1,
		p.CreatedAt.UnixNano(),
		p.UpdatedAt.UnixNano(),
		state.Version,
	)
	if err != nil {
		return store.NewStoreError("profile", "save", "failed to write profile", MapError(err))
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return store.NewStoreError("profile", "save", "failed to read affected rows", err)
	}
	if affected == 0 {
		return store.NewStoreError("profile", "save", "stale version", store.ErrConflict)
	}

	if _, err := q.ExecContext(ctx, deleteItemsSQL, p.ID); err != nil {
		return store.NewStoreError("review_item", "save", "failed to clear review items", MapError(err))
	}

	for _, item := range state.Items {
		_, err := q.ExecContext(ctx, insertItemSQL,
			item.ID,
			p.ID,
			item.ContentRef,
			string(item.State),
			item.Difficulty,
			item.Stability,
			item.ElapsedDays,
			item.ScheduledInterval,
			item.LastReviewedAt.UnixNano(),
			item.NextReviewAt.UnixNano(),
			item.ReviewCount,
			item.Lapses,
		)
		if IsUniqueViolation(err) {
			return store.NewStoreError("review_item", "save", "review item owned by another profile",
				fmt.Errorf("%w: %v", store.ErrDuplicateReviewItem, err))
		}
		if err != nil {
			return store.NewStoreError("review_item", "save", "failed to write review item", MapError(err))
		}
	}

	return nil
}

// ListProfileIDs implements store.ProgressStore.ListProfileIDs
func (s *SQLiteProgressStore) ListProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := s.db.SelectContext(ctx, &ids, listProfileIDsSQL); err != nil {
		return nil, store.NewStoreError("profile", "list", "failed to query profiles", MapError(err))
	}
	return ids, nil
}
