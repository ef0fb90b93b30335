package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shashiranjanraj/bookstore/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialectorsCoverEveryDriver(t *testing.T) {
	for _, driver := range []string{"sqlite", "postgres", "mysql", "sqlserver"} {
		open, ok := dialectors[driver]
		require.True(t, ok, driver)
		assert.Equal(t, driver, open("dsn").Name())
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql, postgres, sqlite, sqlserver")
}

func TestConfigurePoolPingsSQLite(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "pool.db"))
	require.NoError(t, err)

	pool := config.PoolConfig{MaxOpen: 3, MaxIdle: 1, MaxLifetime: time.Minute, MaxIdleTime: time.Minute}
	require.NoError(t, configurePool(context.Background(), db, pool))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 3, sqlDB.Stats().MaxOpenConnections)
	require.NoError(t, sqlDB.Close())
}
