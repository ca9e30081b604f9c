package postgres

import (
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/petboarding/petboarding-backend/migrations"
)

// OpenMigrationDB opens a database/sql handle for goose, which cannot work
// with a pgx pool.
func OpenMigrationDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration db: %w", err)
	}
	return db, nil
}

// NewMigrator returns a goose provider over the embedded migrations.
// goose.NewProvider handles $$-delimited bodies, unlike the legacy goose.Up
// which splits on semicolons.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return nil, fmt.Errorf("goose new provider: %w", err)
	}
	return provider, nil
}
