package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/mysql/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate applies the embedded migrations for backend.
func Migrate(ctx context.Context, db *sql.DB, backend Backend) error {
	dir := "migrations/" + string(backend)
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(string(backend)); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	return nil
}
