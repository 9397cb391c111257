package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
)

// DBTX is the query surface shared by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is a DBTX that can open transactions. A pgx.Tx satisfies it too, in
// which case Begin opens a savepoint.
type Pool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

var ErrNotFound = errors.New("record not found")

// Postgres SQLSTATE codes surfaced as constraint errors.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// ConstraintError reports a rejected write and names the constraint that fired.
type ConstraintError struct {
	Code       string
	Constraint string
	Detail     string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("constraint %s violated (%s): %s", e.Constraint, e.Code, e.Detail)
}

func (e *ConstraintError) IsUnique() bool { return e.Code == CodeUniqueViolation }

func (e *ConstraintError) IsForeignKey() bool { return e.Code == CodeForeignKeyViolation }

func (e *ConstraintError) IsCheck() bool { return e.Code == CodeCheckViolation }

// translateError maps driver errors onto the repository error set.
func translateError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case CodeUniqueViolation, CodeForeignKeyViolation, CodeCheckViolation:
			return &ConstraintError{Code: pgErr.Code, Constraint: pgErr.ConstraintName, Detail: pgErr.Detail}
		}
	}
	return errors.Wrap(err, msg)
}

// expectAffected turns a zero-row write into ErrNotFound.
func expectAffected(tag pgconn.CommandTag, err error, msg string) error {
	if err != nil {
		return translateError(err, msg)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
