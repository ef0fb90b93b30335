package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/bookstore/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the process-wide handle set by Connect.
var DB *gorm.DB

var dialectors = map[string]func(dsn string) gorm.Dialector{
	"sqlite":    sqlite.Open,
	"postgres":  postgres.Open,
	"mysql":     mysql.Open,
	"sqlserver": sqlserver.Open,
}

// Connect opens the configured database, sizes its pool and pings it
// before publishing it as DB.
func Connect(ctx context.Context) error {
	db, err := Open(config.DatabaseDriver(), config.DatabaseDSN())
	if err != nil {
		return err
	}
	if err := configurePool(ctx, db, config.DatabasePool()); err != nil {
		return err
	}
	DB = db
	return nil
}

// Open builds a gorm handle without touching DB.
func Open(driver, dsn string) (*gorm.DB, error) {
	open, ok := dialectors[driver]
	if !ok {
		return nil, fmt.Errorf("database: unsupported driver %q (want one of %s)", driver, supported())
	}

	db, err := gorm.Open(open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open %s: %w", driver, err)
	}
	return db, nil
}

func configurePool(ctx context.Context, db *gorm.DB, pool config.PoolConfig) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	sqlDB.SetMaxOpenConns(pool.MaxOpen)
	sqlDB.SetMaxIdleConns(pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(pool.MaxLifetime)
	sqlDB.SetConnMaxIdleTime(pool.MaxIdleTime)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database: ping: %w", err)
	}
	return nil
}

func supported() string {
	names := make([]string, 0, len(dialectors))
	for name := range dialectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
