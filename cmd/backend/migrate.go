package main

import (
	"database/sql"
	"fmt"

	"github.com/hairizuanbinnoorazman/wise-institute/database"
	"github.com/hairizuanbinnoorazman/wise-institute/logger"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Database migration commands",
}

// openDatabase loads the config and connects to the configured database.
func openDatabase() (*Config, *gorm.DB, *sql.DB, logger.Logger, error) {
	cfg, err := LoadConfig(configFile)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.NewLogrusLogger(cfg.Log.Level)

	db, err := database.Connect(cfg.databaseConfig())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	return cfg, db, sqlDB, log, nil
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, sqlDB, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if err := database.Migrate(db, cfg.Database.Driver, log); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		fmt.Println("Migrations applied successfully")
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Rollback the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, sqlDB, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if cfg.Database.Driver == database.DriverSQLite {
			return fmt.Errorf("rollback is not supported for the sqlite driver")
		}

		if err := database.RollbackMigration(sqlDB, log); err != nil {
			return fmt.Errorf("failed to rollback migration: %w", err)
		}

		fmt.Println("Migration rolled back successfully")
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, sqlDB, log, err := openDatabase()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if cfg.Database.Driver == database.DriverSQLite {
			return fmt.Errorf("versioned migrations are not used with the sqlite driver")
		}

		version, dirty, err := database.MigrationVersion(sqlDB, log)
		if err != nil {
			return fmt.Errorf("failed to read migration version: %w", err)
		}

		fmt.Printf("version: %d, dirty: %t\n", version, dirty)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateVersionCmd)

	rootCmd.AddCommand(migrateCmd)
}
