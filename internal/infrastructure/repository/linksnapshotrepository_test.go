package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/orris-inc/templink/internal/domain/templink"
	"github.com/orris-inc/templink/internal/infrastructure/persistence/models"
	"github.com/orris-inc/templink/internal/shared/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every new connection to :memory: opens an empty database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestLinkSnapshotRepository_SaveLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLinkSnapshotRepository(db, "", logger.NewNopLogger())
	require.NoError(t, repo.AutoMigrate())
	ctx := context.Background()

	t.Run("load before any save", func(t *testing.T) {
		_, err := repo.Load(ctx)
		assert.ErrorIs(t, err, templink.ErrSnapshotNotFound)
	})

	t.Run("save replaces the previous snapshot", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, []byte(`{"a":{},"b":{}}`)))
		require.NoError(t, repo.Save(ctx, []byte(`{"c":{}}`)))

		data, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"c":{}}`, string(data))

		var rows []models.LinkSnapshotModel
		require.NoError(t, db.Find(&rows).Error)
		require.Len(t, rows, 1)
		assert.Equal(t, DefaultSnapshotName, rows[0].Name)
		assert.Equal(t, 1, rows[0].LinkCount)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx))
		assert.ErrorIs(t, repo.Delete(ctx), templink.ErrSnapshotNotFound)
		_, err := repo.Load(ctx)
		assert.ErrorIs(t, err, templink.ErrSnapshotNotFound)
	})
}

func TestLinkSnapshotRepository_NamesAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	first := NewLinkSnapshotRepository(db, "first", logger.NewNopLogger())
	second := NewLinkSnapshotRepository(db, "second", logger.NewNopLogger())
	require.NoError(t, first.AutoMigrate())
	ctx := context.Background()

	require.NoError(t, first.Save(ctx, []byte(`{"x":{}}`)))

	_, err := second.Load(ctx)
	assert.ErrorIs(t, err, templink.ErrSnapshotNotFound)

	data, err := first.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"x":{}}`, string(data))
}

func TestCountLinks(t *testing.T) {
	assert.Equal(t, 2, countLinks([]byte(`{"a":{},"b":{"oneTime":true}}`)))
	assert.Equal(t, 0, countLinks([]byte(`{}`)))
	assert.Equal(t, 0, countLinks([]byte(`not json`)))
}
