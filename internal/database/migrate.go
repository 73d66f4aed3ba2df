package database

import (
	"embed"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Migrate applies the SQL migrations that cover what AutoMigrate cannot
// express, currently the partial unique indexes guarding token issuance.
func (s *DB) Migrate() error {
	log := s.log.Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return log.Err("failed to get database handle", err)
	}

	source := &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFS,
		Root:       "migrations",
	}

	applied, err := migrate.Exec(sqlDB, "sqlite3", source, migrate.Up)
	if err != nil {
		return log.Err("failed to apply migrations", err)
	}

	log.Info("Applied migrations", "count", applied)
	return nil
}
