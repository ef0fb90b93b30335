package migration

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type shelf struct {
	ID   uint
	Name string
}

type createShelves struct{}

func (createShelves) Up(db *gorm.DB) error   { return db.AutoMigrate(&shelf{}) }
func (createShelves) Down(db *gorm.DB) error { return db.Migrator().DropTable(&shelf{}) }

type addShelfIndex struct{}

func (addShelfIndex) Up(db *gorm.DB) error {
	return db.Exec("CREATE INDEX idx_shelves_name ON shelves(name)").Error
}
func (addShelfIndex) Down(db *gorm.DB) error {
	return db.Exec("DROP INDEX idx_shelves_name").Error
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "m.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestRunRollbackStatus(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)

	first := NewWith(db, []Entry{{Name: "0001_create_shelves", Migration: createShelves{}}})
	applied, err := first.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_shelves"}, applied)
	assert.True(t, db.Migrator().HasTable(&shelf{}))

	both := NewWith(db, []Entry{
		{Name: "0002_index_shelves", Migration: addShelfIndex{}},
		{Name: "0001_create_shelves", Migration: createShelves{}},
	})

	applied, err = both.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_index_shelves"}, applied)

	applied, err = both.Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)

	status, err := both.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Status{
		{Name: "0001_create_shelves", Ran: true, Batch: 1},
		{Name: "0002_index_shelves", Ran: true, Batch: 2},
	}, status)

	reverted, err := both.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0002_index_shelves"}, reverted)
	assert.True(t, db.Migrator().HasTable(&shelf{}))

	reverted, err = both.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_create_shelves"}, reverted)
	assert.False(t, db.Migrator().HasTable(&shelf{}))

	reverted, err = both.Rollback(ctx)
	require.NoError(t, err)
	assert.Empty(t, reverted)
}
