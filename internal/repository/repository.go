package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/juju/errors"
)

// Querier is the subset of *sql.DB the stores need. A *sql.Tx satisfies it
// as well.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// now returns the current time at the precision PostgreSQL stores, so an
// entity returned from Save compares equal to the same row read back later.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// expectOneRow turns an update or delete that matched nothing into NotFound.
func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Annotatef(err, "accessing %s", what)
	}
	if n == 0 {
		return errors.NotFoundf("%s", what)
	}
	return nil
}
