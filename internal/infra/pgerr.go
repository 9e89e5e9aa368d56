package infra

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation     = "23505"
	pgErrCodeForeignKeyViolation = "23503"
	pgErrCodeExclusionViolation  = "23P01"
)

// ClassifyPgError maps PostgreSQL constraint violations to repository error
// kinds. Exclusion violations come from the bookings no-overlap constraint
// and surface as CONFLICT.
func ClassifyPgError(err error) (RepositoryErrorKind, bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}

	switch pgErr.Code {
	case pgErrCodeUniqueViolation:
		return KindDuplicateKey, true
	case pgErrCodeForeignKeyViolation:
		return KindForeignKeyViolated, true
	case pgErrCodeExclusionViolation:
		return KindConflict, true
	default:
		return "", false
	}
}
