package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kofadam/asahi-x-family/internal/domain"
	"github.com/kofadam/asahi-x-family/internal/store"
)

const (
	selectProfileSQL = `
		SELECT id, total_xp, level, streak_count, last_activity_date,
		       achievements, preferences, progress, streak, version, created_at, updated_at
		FROM profiles
		WHERE id = $1`

	selectItemsSQL = `
		SELECT id, content_ref, state, difficulty, stability, elapsed_days, scheduled_interval,
		       last_reviewed_at, next_review_at, review_count, lapses
		FROM review_items
		WHERE profile_id = $1
		ORDER BY next_review_at, id`

	upsertProfileSQL = `
		INSERT INTO profiles (id, total_xp, level, streak_count, last_activity_date,
		                      achievements, preferences, progress, streak, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10 + 1, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			total_xp = EXCLUDED.total_xp,
			level = EXCLUDED.level,
			streak_count = EXCLUDED.streak_count,
			last_activity_date = EXCLUDED.last_activity_date,
			achievements = EXCLUDED.achievements,
			preferences = EXCLUDED.preferences,
			progress = EXCLUDED.progress,
			streak = EXCLUDED.streak,
			version = EXCLUDED.version,
			updated_at = EXCLUDED.updated_at
		WHERE profiles.version = $10`

	deleteItemsSQL = `DELETE FROM review_items WHERE profile_id = $1`

	insertItemSQL = `
		INSERT INTO review_items (id, profile_id, content_ref, state, difficulty, stability,
		                          elapsed_days, scheduled_interval, last_reviewed_at, next_review_at,
		                          review_count, lapses)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	listProfileIDsSQL = `SELECT id FROM profiles ORDER BY id`
)

// PostgresProgressStore implements the store.ProgressStore interface
// using a PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db     *sql.DB
	tx     *sql.Tx
	logger *slog.Logger
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. The connection is owned by the caller.
func NewPostgresProgressStore(db *sql.DB, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("db cannot be nil for PostgresProgressStore")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresProgressStore{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_progress_store")),
	}
}

// WithTx returns a store that runs every statement inside tx. Save then
// relies on the caller to commit or roll back.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) *PostgresProgressStore {
	return &PostgresProgressStore{
		db:     s.db,
		tx:     tx,
		logger: s.logger,
	}
}

func (s *PostgresProgressStore) conn() store.DBTX {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

// Load implements store.ProgressStore.Load
func (s *PostgresProgressStore) Load(ctx context.Context, profileID uuid.UUID) (*domain.ProfileState, error) {
	q := s.conn()

	var (
		state        domain.ProfileState
		docs         store.Documents
		lastActivity sql.NullTime
	)
	err := q.QueryRowContext(ctx, selectProfileSQL, profileID).Scan(
		&state.Profile.ID,
		&state.Profile.TotalXP,
		&state.Profile.Level,
		&state.Profile.StreakCount,
		&lastActivity,
		&docs.Achievements,
		&docs.Preferences,
		&docs.Progress,
		&docs.Streak,
		&state.Version,
		&state.Profile.CreatedAt,
		&state.Profile.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, store.NewStoreError("profile", "load", "failed to query profile", MapError(err))
	}

	if lastActivity.Valid {
		state.Profile.LastActivityDate = domain.DateOf(lastActivity.Time.UTC())
	}
	state.Profile.CreatedAt = state.Profile.CreatedAt.UTC()
	state.Profile.UpdatedAt = state.Profile.UpdatedAt.UTC()

	if err := docs.DecodeInto(&state); err != nil {
		return nil, store.NewStoreError("profile", "load", "corrupt profile document", err)
	}

	items, err := s.loadItems(ctx, q, profileID)
	if err != nil {
		return nil, err
	}
	state.Items = items

	return &state, nil
}

func (s *PostgresProgressStore) loadItems(
	ctx context.Context,
	q store.DBTX,
	profileID uuid.UUID,
) ([]domain.ReviewItem, error) {
	rows, err := q.QueryContext(ctx, selectItemsSQL, profileID)
	if err != nil {
		return nil, store.NewStoreError("review_item", "load", "failed to query review items", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	items := []domain.ReviewItem{}
	for rows.Next() {
		var item domain.ReviewItem
		if err := rows.Scan(
			&item.ID,
			&item.ContentRef,
			&item.State,
			&item.Difficulty,
			&item.Stability,
			&item.ElapsedDays,
			&item.ScheduledInterval,
			&item.LastReviewedAt,
			&item.NextReviewAt,
			&item.ReviewCount,
			&item.Lapses,
		); err != nil {
			return nil, store.NewStoreError("review_item", "load", "failed to scan review item", err)
		}
		item.LastReviewedAt = item.LastReviewedAt.UTC()
		item.NextReviewAt = item.NextReviewAt.UTC()
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_item", "load", "failed to iterate review items", err)
	}

	return items, nil
}

// Save implements store.ProgressStore.Save
func (s *PostgresProgressStore) Save(ctx context.Context, state *domain.ProfileState) error {
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

	if s.tx != nil {
		err = s.save(ctx, s.tx, state, docs)
	} else {
		err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
			return s.save(ctx, tx, state, docs)
		})
	}
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

func (s *PostgresProgressStore) save(
	ctx context.Context,
	q store.DBTX,
	state *domain.ProfileState,
	docs store.Documents,
) error {
	p := state.Profile

	var lastActivity sql.NullTime
	if !p.LastActivityDate.IsZero() {
		lastActivity = sql.NullTime{Time: p.LastActivityDate.Midnight(), Valid: true}
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
		state.Version,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return store.NewStoreError("profile", "save", "failed to write profile", MapError(err))
	}
	conflict := store.NewStoreError("profile", "save", "stale version", store.ErrConflict)
	if err := CheckRowsAffected(result, conflict); err != nil {
		return err
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
			item.LastReviewedAt,
			item.NextReviewAt,
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
func (s *PostgresProgressStore) ListProfileIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.conn().QueryContext(ctx, listProfileIDsSQL)
	if err != nil {
		return nil, store.NewStoreError("profile", "list", "failed to query profiles", MapError(err))
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			s.logger.WarnContext(ctx, "failed to close rows", slog.String("error", cerr.Error()))
		}
	}()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, store.NewStoreError("profile", "list", "failed to scan profile id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("profile", "list", "failed to iterate profiles", err)
	}
	return ids, nil
}
