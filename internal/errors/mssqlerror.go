package errors

import (
	"errors"

	mssql "github.com/microsoft/go-mssqldb"
)

// Error numbers refer to https://learn.microsoft.com/en-us/sql/relational-databases/errors-events/database-engine-events-and-errors

const (
	ErrMSSQLLoginFailed       int32 = 18456
	ErrMSSQLInvalidObjectName int32 = 208
	ErrMSSQLPermissionDenied  int32 = 229
)

func IsMSSQLErrorNumber(err error, number int32) bool {
	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) && sqlErr.Number == number {
		return true
	}
	return false
}

// MSSQLErrorNumber returns the server error number carried by err, or zero
func MSSQLErrorNumber(err error) int32 {
	var sqlErr mssql.Error
	if errors.As(err, &sqlErr) {
		return sqlErr.Number
	}
	return 0
}
