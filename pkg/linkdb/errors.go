// Package linkdb provides the public API of linkdb: it introspects a
// relational database, infers which tables hold data and which link two
// data tables together, and reads, writes and deletes rows together with
// their links.
package linkdb

import (
	"github.com/hlop3z/linkdb/internal/alerr"
)

// Error is the structured error returned by every client operation.
// Use errors.As to inspect its code and context.
type Error = alerr.Error

// Code identifies a kind of Error.
type Code = alerr.Code

// Error codes callers commonly branch on.
const (
	ErrInvalidLinkTable  = alerr.ErrInvalidLinkTable
	ErrInvalidTableName  = alerr.ErrInvalidTableName
	ErrInvalidColumnName = alerr.ErrInvalidColumnName
	ErrRequiredField     = alerr.ErrRequiredField
	ErrInvalidDate       = alerr.ErrInvalidDate
	ErrInvalidRowID      = alerr.ErrInvalidRowID
	ErrNoRowsAffected    = alerr.ErrNoRowsAffected
	ErrRowNotFound       = alerr.ErrRowNotFound
	ErrSQLConnection     = alerr.ErrSQLConnection
	ErrConfigInvalid     = alerr.ErrConfigInvalid
)

// IsCode reports whether err is or wraps an Error with the given code.
func IsCode(err error, code Code) bool {
	return alerr.Is(err, code)
}
