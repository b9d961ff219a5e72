package errors_test

import (
	"database/sql"
	"net/http"
	"testing"

	mssqldb "github.com/microsoft/go-mssqldb"
	"github.com/stretchr/testify/assert"

	"github.com/goto/jobtrail/internal/errors"
)

func TestDomainError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		t.Run("should include the entity and message", func(t *testing.T) {
			err := errors.NotFound("jobRun", "no run with instance id 42")

			assert.EqualError(t, err, "resource not found for entity jobRun: no run with instance id 42")
		})
		t.Run("should append the wrapped error", func(t *testing.T) {
			err := errors.UpstreamFailure("history", "unable to read history", sql.ErrConnDone)

			assert.EqualError(t, err, "upstream failure for entity history: unable to read history: "+sql.ErrConnDone.Error())
			assert.ErrorIs(t, err, sql.ErrConnDone)
		})
	})
	t.Run("AddErrContext", func(t *testing.T) {
		t.Run("should keep the type of a domain error", func(t *testing.T) {
			inner := errors.InvalidArgument("packageReference", "invalid package path format x.dtsx")

			err := errors.AddErrContext(inner, "execution", "unable to list executions")

			assert.True(t, errors.IsErrorType(err, errors.ErrInvalidArgument))
			assert.Equal(t, "execution", err.Entity)
		})
		t.Run("should treat other errors as internal", func(t *testing.T) {
			err := errors.AddErrContext(errors.New("boom"), "execution", "unable to list executions")

			assert.True(t, errors.IsErrorType(err, errors.ErrInternalError))
		})
	})
	t.Run("IsErrorType", func(t *testing.T) {
		t.Run("should return false for plain errors", func(t *testing.T) {
			assert.False(t, errors.IsErrorType(sql.ErrNoRows, errors.ErrNotFound))
		})
	})
}

func TestHTTPErr(t *testing.T) {
	t.Run("should map error types to status codes", func(t *testing.T) {
		cases := map[int]error{
			http.StatusNotFound:            errors.NotFound("job", "missing"),
			http.StatusBadRequest:          errors.InvalidArgument("job", "bad"),
			http.StatusBadGateway:          errors.UpstreamFailure("job", "down", nil),
			http.StatusInternalServerError: errors.InternalError("job", "broken", nil),
		}
		for status, err := range cases {
			assert.Equal(t, status, errors.HTTPErr(err, "request failed").Status)
		}
	})
	t.Run("should treat unknown errors as internal", func(t *testing.T) {
		httpErr := errors.HTTPErr(errors.New("boom"), "unable to get job runs")

		assert.Equal(t, http.StatusInternalServerError, httpErr.Status)
		assert.Equal(t, "unable to get job runs: boom", httpErr.Message)
	})
}

func TestMSSQLErrorNumber(t *testing.T) {
	t.Run("should read the number of a server error", func(t *testing.T) {
		err := errors.UpstreamFailure("job", "query failed", mssqldb.Error{Number: 229})

		assert.Equal(t, errors.ErrMSSQLPermissionDenied, errors.MSSQLErrorNumber(err))
		assert.True(t, errors.IsMSSQLErrorNumber(err, errors.ErrMSSQLPermissionDenied))
	})
	t.Run("should return zero for other errors", func(t *testing.T) {
		assert.Zero(t, errors.MSSQLErrorNumber(sql.ErrConnDone))
	})
}
