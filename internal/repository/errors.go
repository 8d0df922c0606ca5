package repository

import (
	"database/sql"
	"strings"

	"github.com/juju/errors"
	"github.com/lib/pq"
)

// PostgreSQL SQLSTATE codes the stores translate.
const (
	uniqueViolation     = pq.ErrorCode("23505")
	foreignKeyViolation = pq.ErrorCode("23503")
)

// mapError translates driver errors into error categories. what names the
// record being accessed, e.g. "user with id 7".
func mapError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.NotFoundf("%s", what)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return errors.AlreadyExistsf("%s", uniqueSubject(pqErr.Constraint, what))
		case foreignKeyViolation:
			return errors.NotFoundf("referenced record for %s", what)
		}
		return errors.Annotatef(err, "accessing %s", what)
	}

	// SQLite reports constraint failures only through the message text.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return errors.AlreadyExistsf("%s", uniqueSubject(msg, what))
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return errors.NotFoundf("referenced record for %s", what)
	}
	return errors.Annotatef(err, "accessing %s", what)
}

func uniqueSubject(constraint, fallback string) string {
	if strings.Contains(constraint, "email") {
		return "user with this email"
	}
	return fallback
}
