package catalog_test

import (
	"context"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
	store "github.com/goto/jobtrail/internal/store/mssql/catalog"
)

var executionColumns = []string{"execution_id", "folder_name", "project_name", "package_name", "status", "start_time", "end_time"}

func TestExecutionRepository(t *testing.T) {
	ctx := context.Background()
	ref := catalog.PackageReference{Folder: "Finance", Project: "Ledger", Package: "Load.dtsx"}
	central := time.FixedZone("CST", -6*60*60)
	started := time.Date(2024, 1, 15, 10, 5, 0, 0, central)
	ended := started.Add(20 * time.Minute)

	setup := func(t *testing.T) (*store.ExecutionRepository, sqlmock.Sqlmock) {
		t.Helper()
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() {
			assert.NoError(t, mock.ExpectationsWereMet())
			db.Close()
		})
		return store.NewExecutionRepository(db), mock
	}

	t.Run("GetExecutionsByPackage", func(t *testing.T) {
		t.Run("should read the latest executions newest first", func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery("(?s)" + regexp.QuoteMeta("SELECT TOP (@p5)") + ".*" + regexp.QuoteMeta("ORDER BY e.start_time DESC")).
				WithArgs("Finance", "Ledger", "Load.dtsx", sqlmock.AnyArg(), 50).
				WillReturnRows(sqlmock.NewRows(executionColumns).
					AddRow(12, "Finance", "Ledger", "Load.dtsx", 7, started, ended).
					AddRow(11, "Finance", "Ledger", "Load.dtsx", 2, started.Add(-time.Hour), nil))

			executions, err := repo.GetExecutionsByPackage(ctx, ref, started.AddDate(0, 0, -30), nil, 50)

			require.NoError(t, err)
			require.Len(t, executions, 2)
			assert.Equal(t, catalog.ExecutionID(12), executions[0].ID)
			assert.Equal(t, catalog.ExecutionSucceeded, executions[0].Status)
			assert.Equal(t, time.UTC, executions[0].StartTime.Location())
			assert.True(t, started.Equal(executions[0].StartTime))
			assert.True(t, ended.Equal(*executions[0].EndTime))
			assert.Nil(t, executions[1].EndTime)
		})
		t.Run("should filter by status when given", func(t *testing.T) {
			repo, mock := setup(t)
			failed := catalog.ExecutionFailed
			mock.ExpectQuery(regexp.QuoteMeta("AND e.status = @p6 ORDER BY e.start_time DESC")).
				WithArgs("Finance", "Ledger", "Load.dtsx", sqlmock.AnyArg(), 50, 4).
				WillReturnRows(sqlmock.NewRows(executionColumns))

			executions, err := repo.GetExecutionsByPackage(ctx, ref, started, &failed, 50)

			assert.NoError(t, err)
			assert.Empty(t, executions)
		})
		t.Run("should return upstream failure on driver errors", func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery(regexp.QuoteMeta("FROM SSISDB.catalog.executions e")).WillReturnError(fmt.Errorf("i/o timeout"))

			_, err := repo.GetExecutionsByPackage(ctx, ref, started, nil, 50)

			assert.True(t, errors.IsErrorType(err, errors.ErrUpstreamFailure))
			assert.ErrorContains(t, err, `Finance\Ledger\Load.dtsx`)
		})
	})
	t.Run("FindExecutions", func(t *testing.T) {
		t.Run("should search inside the window earliest first", func(t *testing.T) {
			repo, mock := setup(t)
			succeeded := catalog.ExecutionSucceeded
			window := scheduler.CorrelationWindow{Start: started.Add(-5 * time.Minute).UTC(), End: started.Add(30 * time.Minute).UTC()}
			mock.ExpectQuery(regexp.QuoteMeta("AND e.start_time <= @p5 AND e.status = @p6 ORDER BY e.start_time ASC")).
				WithArgs("Finance", "Ledger", "Load.dtsx", window.Start, window.End, 7).
				WillReturnRows(sqlmock.NewRows(executionColumns).
					AddRow(12, "Finance", "Ledger", "Load.dtsx", 7, started, ended))

			executions, err := repo.FindExecutions(ctx, scheduler.CorrelationQuery{Package: ref, Window: window, Status: &succeeded})

			require.NoError(t, err)
			require.Len(t, executions, 1)
			assert.Equal(t, ref, executions[0].Reference())
		})
		t.Run("should not filter status when none is expected", func(t *testing.T) {
			repo, mock := setup(t)
			window := scheduler.CorrelationWindow{Start: started.UTC(), End: ended.UTC()}
			mock.ExpectQuery(regexp.QuoteMeta("AND e.start_time <= @p5 ORDER BY e.start_time ASC")).
				WithArgs("Finance", "Ledger", "Load.dtsx", window.Start, window.End).
				WillReturnRows(sqlmock.NewRows(executionColumns))

			executions, err := repo.FindExecutions(ctx, scheduler.CorrelationQuery{Package: ref, Window: window})

			assert.NoError(t, err)
			assert.Empty(t, executions)
		})
	})
	t.Run("GetExecution", func(t *testing.T) {
		t.Run("should read the execution", func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery(regexp.QuoteMeta("WHERE e.execution_id = @p1")).WithArgs(int64(12)).
				WillReturnRows(sqlmock.NewRows(executionColumns).
					AddRow(12, "Finance", "Ledger", "Load.dtsx", 4, started, ended))

			execution, err := repo.GetExecution(ctx, 12)

			require.NoError(t, err)
			assert.Equal(t, catalog.ExecutionFailed, execution.Status)
		})
		t.Run("should return not found for unknown executions", func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery(regexp.QuoteMeta("WHERE e.execution_id = @p1")).WithArgs(int64(99)).
				WillReturnRows(sqlmock.NewRows(executionColumns))

			_, err := repo.GetExecution(ctx, 99)

			assert.True(t, errors.IsErrorType(err, errors.ErrNotFound))
		})
	})
	t.Run("GetMessages", func(t *testing.T) {
		columns := []string{"operation_message_id", "message_time", "message_type", "message"}

		t.Run("should filter message types", func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery(regexp.QuoteMeta("AND om.message_type IN (@p2, @p3, @p4) ORDER BY om.message_time DESC")).
				WithArgs(int64(12), 120, 130, 110).
				WillReturnRows(sqlmock.NewRows(columns).
					AddRow(3, ended, 120, "Data flow failed").
					AddRow(2, started, 110, "Truncation may occur"))

			messages, err := repo.GetMessages(ctx, 12, catalog.DiagnosticMessageTypes)

			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, catalog.MessageError, messages[0].Type)
			assert.Equal(t, "Data flow failed", messages[0].Text)
			assert.True(t, ended.Equal(messages[0].Time))
		})
		t.Run("should read every type when none is given", func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery(regexp.QuoteMeta("WHERE om.operation_id = @p1 ORDER BY om.message_time DESC")).
				WithArgs(int64(12)).
				WillReturnRows(sqlmock.NewRows(columns).AddRow(1, started, 70, "Validation has started"))

			messages, err := repo.GetMessages(ctx, 12, nil)

			require.NoError(t, err)
			assert.Equal(t, catalog.MessageInformation, messages[0].Type)
		})
		t.Run("should return upstream failure on driver errors", func(t *testing.T) {
			repo, mock := setup(t)
			mock.ExpectQuery(regexp.QuoteMeta("FROM SSISDB.catalog.operation_messages om")).WillReturnError(fmt.Errorf("i/o timeout"))

			_, err := repo.GetMessages(ctx, 12, nil)

			assert.True(t, errors.IsErrorType(err, errors.ErrUpstreamFailure))
		})
	})
}
