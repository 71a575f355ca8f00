// Package migrate applies embedded SQL migrations on startup.
package migrate

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/milanapp/milan-backend/migrations"
)

// Up runs all pending migrations on the given connection.
func Up(ctx context.Context, db *sqlx.DB) error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db.DB, ".")
}
