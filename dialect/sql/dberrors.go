package sql

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"modernc.org/sqlite"

	"github.com/rowbatch/rowbatch"
)

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgIntegrityViolation  = "23000"
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451 // cannot delete or update a parent row
	mysqlForeignKeyChild  = 1452 // cannot add or update a child row
	mysqlCheckViolation   = 3819
)

// SQLITE_CONSTRAINT primary result code; extended constraint codes share
// the low byte.
const sqliteConstraint = 19

// decodeError converts driver-specific constraint violations into
// rowbatch.ConstraintError, leaving every other error untouched.
func decodeError(err error) error {
	if err == nil || rowbatch.IsConstraintError(err) {
		return err
	}
	if msg, ok := constraintMessage(err); ok {
		return rowbatch.NewConstraintError(msg, err)
	}
	return err
}

// constraintMessage reports whether err is a constraint violation and
// returns a short description of it.
func constraintMessage(err error) (string, bool) {
	var pqe *pq.Error
	if errors.As(err, &pqe) {
		switch string(pqe.Code) {
		case pgIntegrityViolation, pgNotNullViolation, pgForeignKeyViolation, pgUniqueViolation, pgCheckViolation:
			if pqe.Constraint != "" {
				return pqe.Constraint + ": " + pqe.Message, true
			}
			return pqe.Message, true
		}
		return "", false
	}
	var mye *mysql.MySQLError
	if errors.As(err, &mye) {
		switch mye.Number {
		case mysqlDuplicateEntry, mysqlForeignKeyParent, mysqlForeignKeyChild, mysqlCheckViolation:
			return mye.Message, true
		}
		return "", false
	}
	var sqe *sqlite.Error
	if errors.As(err, &sqe) {
		if sqe.Code()&0xff == sqliteConstraint {
			return sqe.Error(), true
		}
		return "", false
	}
	// Fallback for wrapped or third-party drivers that expose neither type.
	msg := err.Error()
	for _, sub := range []string{
		"violates unique constraint",
		"violates foreign key constraint",
		"violates check constraint",
		"UNIQUE constraint failed",
		"FOREIGN KEY constraint failed",
		"CHECK constraint failed",
		"NOT NULL constraint failed",
		"Error 1062",
		"Error 1451",
		"Error 1452",
	} {
		if strings.Contains(msg, sub) {
			return msg, true
		}
	}
	return "", false
}
