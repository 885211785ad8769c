// Package postgres implements the application ports on PostgreSQL via pgx.
// Repositories hold no state beyond the injected pool handle; every
// operation reads and writes through it, so consistency questions belong
// to the database's constraints, not to in-process locking.
package postgres

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/ruxixa/chat-app/internal/infrastructure/persistence/migrations"
)

// DBTX is the subset of pgxpool.Pool the repositories need. Narrowing the
// dependency keeps the pool swappable for a transaction in tests or
// composed operations.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RunMigrations applies the embedded goose migrations. It takes a
// database/sql handle (pgx stdlib driver) because goose speaks *sql.DB;
// callers open it for migration only and close it afterwards.
func RunMigrations(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer db.Close()
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
