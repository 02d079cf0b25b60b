package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/hairizuanbinnoorazman/wise-institute/admin"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/hairizuanbinnoorazman/wise-institute/media"
	"gorm.io/gorm"
)

// Models lists every table the application owns.
func Models() []interface{} {
	return []interface{}{&admin.Admin{}, &media.Record{}, &media.Asset{}}
}

func newMigrator(sqlDB *sql.DB, log logger.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(MigrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	driver, err := migratemysql.WithInstance(sqlDB, &migratemysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, DriverMySQL, driver)
	if err != nil {
		return nil, fmt.Errorf("migrate init: %w", err)
	}
	m.Log = &migrateLogger{logger: log}
	return m, nil
}

// RunMigrations applies all pending MySQL migrations.
func RunMigrations(sqlDB *sql.DB, log logger.Logger) error {
	m, err := newMigrator(sqlDB, log)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	version, dirty, _ := m.Version()
	log.Info(context.Background(), "migration complete", map[string]interface{}{
		"version": version,
		"dirty":   dirty,
	})
	return nil
}

// RollbackMigration reverts the most recent MySQL migration.
func RollbackMigration(sqlDB *sql.DB, log logger.Logger) error {
	m, err := newMigrator(sqlDB, log)
	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrationVersion reports the applied MySQL schema version.
func MigrationVersion(sqlDB *sql.DB, log logger.Logger) (uint, bool, error) {
	m, err := newMigrator(sqlDB, log)
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Migrate brings the schema up to date. MySQL uses the versioned migration
// files; SQLite, used for local development, uses GORM auto-migration.
func Migrate(db *gorm.DB, driver string, log logger.Logger) error {
	if driver == DriverSQLite {
		if err := db.AutoMigrate(Models()...); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
		log.Info(context.Background(), "sqlite schema migrated", nil)
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB, log)
}

type migrateLogger struct {
	logger logger.Logger
}

func (l *migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(context.Background(), strings.TrimSpace(fmt.Sprintf(format, v...)), nil)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
