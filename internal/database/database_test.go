package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zohair-aabidi/ajenda/internal/auth"
	"github.com/zohair-aabidi/ajenda/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	return db
}

func TestMigrate_CreatesSchemaAndSeedsRoles(t *testing.T) {
	db := openSQLite(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, db))
	// Running twice must not duplicate the seeded roles.
	require.NoError(t, Migrate(ctx, db))

	for _, table := range []string{"roles", "users", "user_roles", "evenements", "action_logs"} {
		assert.True(t, db.Migrator().HasTable(table), "table %s", table)
	}

	var roles []models.Role
	require.NoError(t, db.Order("name").Find(&roles).Error)
	require.Len(t, roles, 2)
	assert.Equal(t, auth.RoleAdmin, roles[0].Name)
	assert.Equal(t, auth.RoleUser, roles[1].Name)
}

func TestConfigurePool(t *testing.T) {
	db := openSQLite(t)

	require.NoError(t, configurePool(db, PoolConfig{MaxOpenConns: 3, ConnMaxLifetime: time.Minute}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1", DefaultPoolConfig())
	assert.Error(t, err)
}
