package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/petshop/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDatabase opens a private in-memory sqlite database with the full
// schema. A single connection keeps every query on the same memory store.
func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		SQLitePath:   ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestNewDatabase(t *testing.T) {
	t.Run("sqlite migrates schema", func(t *testing.T) {
		db := newTestDatabase(t)
		assert.Equal(t, "sqlite", db.Driver)
		assert.NoError(t, db.Ping(context.Background()))

		for _, table := range []string{"promotions", "promotion_variants", "reseller_categories", "products", "product_variants", "users", "orders", "order_items"} {
			assert.True(t, db.DB.Migrator().HasTable(table), table)
		}
	})

	t.Run("unsupported driver", func(t *testing.T) {
		_, err := NewDatabase(&config.DatabaseConfig{Driver: "mysql"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported database driver")
	})
}

func TestDatabase_Transaction(t *testing.T) {
	db := newTestDatabase(t)

	boom := errors.New("boom")
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO categories (id, created_at, updated_at, version, tenant_id, name, slug) VALUES ('c1', CURRENT_TIMESTAMP, CURRENT_TIMESTAMP, 1, 't1', 'Dog', 'dog')").Error; err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int64
	require.NoError(t, db.DB.Table("categories").Count(&count).Error)
	assert.Zero(t, count)
}
