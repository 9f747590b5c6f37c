package sqlxstore

import (
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/masomo/core"
)

// pqIntegrityViolation is the SQLSTATE class of constraint violations.
const pqIntegrityViolation = "23"

func persistenceError(op string, err error) *core.PersistenceError {
	return &core.PersistenceError{Op: op, Err: err, Constraint: isConstraint(err)}
}

// isConstraint classifies a driver error by its code.
func isConstraint(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Class() == pqIntegrityViolation
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		// extended result codes keep the primary code in the low byte
		return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
