package database

import "embed"

// MigrationsFS holds the MySQL migration files.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
