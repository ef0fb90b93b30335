// Package migration runs named, batch-tracked schema migrations.
//
// Migrations register themselves from init functions in database/migrations:
//
//	func init() {
//	    migration.Register("20250101000100_create_books_table", &CreateBooksTable{})
//	}
//
// and are applied with `bookstore migrate`, reverted one batch at a time
// with `bookstore migrate:rollback`.
package migration

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shashiranjanraj/bookstore/pkg/logger"
	"gorm.io/gorm"
)

// Migration is the interface every migration must implement.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:255;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "bookstore_migrations" }

// Entry pairs a migration with its timestamp-prefixed name.
type Entry struct {
	Name      string
	Migration Migration
}

var registry []Entry

// Register adds a migration to the global registry.
func Register(name string, m Migration) {
	registry = append(registry, Entry{Name: name, Migration: m})
}

// Status is one row of `migrate:status`.
type Status struct {
	Name  string
	Ran   bool
	Batch int
}

// Runner executes and tracks migrations.
type Runner struct {
	db      *gorm.DB
	entries []Entry
}

// New creates a Runner over every registered migration.
func New(db *gorm.DB) *Runner {
	return NewWith(db, registry)
}

// NewWith creates a Runner over an explicit list of migrations.
func NewWith(db *gorm.DB, entries []Entry) *Runner {
	sorted := append([]Entry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return &Runner{db: db, entries: sorted}
}

func (r *Runner) ensureTable() error {
	if err := r.db.AutoMigrate(&record{}); err != nil {
		return fmt.Errorf("migration: ensure table: %w", err)
	}
	return nil
}

func (r *Runner) ran(ctx context.Context) (map[string]record, error) {
	var rows []record
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("migration: load history: %w", err)
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

func (r *Runner) lastBatch(ctx context.Context) (int, error) {
	var n int
	err := r.db.WithContext(ctx).Model(&record{}).Select("COALESCE(MAX(batch), 0)").Scan(&n).Error
	return n, err
}

// Run applies every pending migration as one new batch and returns the
// names it applied.
func (r *Runner) Run(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}

	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	last, err := r.lastBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration: read batch: %w", err)
	}
	batch := last + 1

	var applied []string
	for _, e := range r.entries {
		if _, ok := done[e.Name]; ok {
			continue
		}

		logger.Info("migration: running", "name", e.Name, "batch", batch)
		if err := e.Migration.Up(r.db.WithContext(ctx)); err != nil {
			return applied, fmt.Errorf("migration: %s up: %w", e.Name, err)
		}
		if err := r.db.WithContext(ctx).Create(&record{Name: e.Name, Batch: batch}).Error; err != nil {
			return applied, fmt.Errorf("migration: record %s: %w", e.Name, err)
		}
		applied = append(applied, e.Name)
	}

	if len(applied) == 0 {
		logger.Info("migration: nothing to migrate")
	}
	return applied, nil
}

// Rollback reverts the most recent batch in reverse order and returns the
// names it reverted.
func (r *Runner) Rollback(ctx context.Context) ([]string, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}

	last, err := r.lastBatch(ctx)
	if err != nil {
		return nil, fmt.Errorf("migration: read batch: %w", err)
	}
	if last == 0 {
		return nil, nil
	}

	var rows []record
	if err := r.db.WithContext(ctx).Where("batch = ?", last).Order("id desc").Find(&rows).Error; err != nil {
		return nil, err
	}

	byName := make(map[string]Migration, len(r.entries))
	for _, e := range r.entries {
		byName[e.Name] = e.Migration
	}

	var reverted []string
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return reverted, fmt.Errorf("migration: cannot roll back %s: not registered", row.Name)
		}

		logger.Info("migration: rolling back", "name", row.Name)
		if err := m.Down(r.db.WithContext(ctx)); err != nil {
			return reverted, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.WithContext(ctx).Delete(&row).Error; err != nil {
			return reverted, err
		}
		reverted = append(reverted, row.Name)
	}
	return reverted, nil
}

// Status reports every known migration and whether it has run.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	if err := r.ensureTable(); err != nil {
		return nil, err
	}

	done, err := r.ran(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]Status, 0, len(r.entries))
	for _, e := range r.entries {
		row, ok := done[e.Name]
		out = append(out, Status{Name: e.Name, Ran: ok, Batch: row.Batch})
	}
	return out, nil
}
