// Package repo contains all database access logic for the Notekeeper API.
// Each entity has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
//
// Every read and write that touches user-owned data is scoped to
// (id, user_id) in the SQL itself, so a row owned by another user behaves
// exactly like a row that does not exist.
package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mwhited/notekeeper/internal/domain"
)

// db is the minimal query interface satisfied by *pgxpool.Pool, pgx.Conn,
// and pgx.Tx. Accepting this interface instead of *pgxpool.Pool directly
// allows integration tests to pass a transaction that is rolled back after
// each test, giving free per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txdb extends db with Begin so repos can run multi-statement cascades in
// one transaction. Both *pgxpool.Pool and pgx.Tx satisfy it — a pgx.Tx
// begins a savepoint-backed nested transaction, which keeps the rollback
// trick working in integration tests.
type txdb interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scanX
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// mapUniqueViolation converts a Postgres unique_violation into
// domain.ErrDuplicate so services can translate it into an entity-specific
// conflict message. Any other error passes through unchanged.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return domain.ErrDuplicate
	}
	return err
}
