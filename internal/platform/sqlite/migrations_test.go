package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/kofadam/asahi-x-family/internal/platform/logger"
	"github.com/kofadam/asahi-x-family/internal/platform/migrations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableExists(t *testing.T, db *sqlx.DB, name string) bool {
	t.Helper()
	var count int
	require.NoError(t, db.GetContext(context.Background(), &count,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name))
	return count > 0
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log, buf := logger.GetTestLogger(t)

	require.NoError(t, Migrate(ctx, db, migrations.CommandUp, log))
	assert.True(t, tableExists(t, db, "profiles"))
	assert.True(t, tableExists(t, db, "review_items"))
	logger.AssertLogContains(t, buf, "applied migration")

	// up is a no-op once current
	require.NoError(t, Migrate(ctx, db, migrations.CommandUp, log))

	require.NoError(t, Migrate(ctx, db, migrations.CommandStatus, log))
	require.NoError(t, Migrate(ctx, db, migrations.CommandVersion, log))
	logger.AssertLogContains(t, buf, "current migration version")

	require.NoError(t, Migrate(ctx, db, migrations.CommandDown, log))
	assert.True(t, tableExists(t, db, "profiles"))
	assert.False(t, tableExists(t, db, "review_items"))

	require.NoError(t, Migrate(ctx, db, migrations.CommandReset, log))
	assert.False(t, tableExists(t, db, "profiles"))

	err = Migrate(ctx, db, "sideways", log)
	assert.ErrorIs(t, err, migrations.ErrUnknownCommand)
}

func TestCommands(t *testing.T) {
	assert.Equal(t, []string{"up", "down", "reset", "status", "version"}, migrations.Commands())
}
