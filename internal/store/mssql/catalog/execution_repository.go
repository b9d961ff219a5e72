package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/georgysavva/scany/v2/sqlscan"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/core/scheduler"
	"github.com/goto/jobtrail/internal/errors"
	"github.com/goto/jobtrail/internal/store/mssql"
)

const (
	getExecutionsByPackage = `SELECT TOP (@p5) ` + executionColumns + `
FROM SSISDB.catalog.executions e
WHERE e.folder_name = @p1
AND e.project_name = @p2
AND e.package_name = @p3
AND e.start_time >= @p4`

	// window bounds are absolute instants, the catalog stores datetimeoffset
	findExecutions = `SELECT ` + executionColumns + `
FROM SSISDB.catalog.executions e
WHERE e.folder_name = @p1
AND e.project_name = @p2
AND e.package_name = @p3
AND e.start_time >= @p4
AND e.start_time <= @p5`

	getExecutionByID = `SELECT ` + executionColumns + `
FROM SSISDB.catalog.executions e
WHERE e.execution_id = @p1`

	getMessages = `SELECT om.operation_message_id, om.message_time, om.message_type, ISNULL(om.message, '') AS message
FROM SSISDB.catalog.operation_messages om
WHERE om.operation_id = @p1`
)

type ExecutionRepository struct {
	db *sql.DB
}

func NewExecutionRepository(db *sql.DB) *ExecutionRepository {
	return &ExecutionRepository{db: db}
}

// GetExecutionsByPackage reads at most limit executions started since, newest first
func (e *ExecutionRepository) GetExecutionsByPackage(ctx context.Context, ref catalog.PackageReference, since time.Time,
	status *catalog.ExecutionStatus, limit int,
) ([]*catalog.Execution, error) {
	query := getExecutionsByPackage
	args := []any{ref.Folder, ref.Project, ref.Package, since, limit}
	if status != nil {
		query += " AND e.status = @p6"
		args = append(args, status.Code())
	}
	query += " ORDER BY e.start_time DESC"

	var rows []*executionRow
	if err := sqlscan.Select(ctx, e.db, &rows, query, args...); err != nil {
		return nil, mssql.UpstreamError(catalog.EntityExecution, "error while getting executions of package "+ref.Path(), err)
	}
	return toExecutions(rows), nil
}

// FindExecutions reads the candidate executions of a correlation query, earliest first
func (e *ExecutionRepository) FindExecutions(ctx context.Context, q scheduler.CorrelationQuery) ([]*catalog.Execution, error) {
	query := findExecutions
	args := []any{q.Package.Folder, q.Package.Project, q.Package.Package, q.Window.Start, q.Window.End}
	if q.Status != nil {
		query += " AND e.status = @p6"
		args = append(args, q.Status.Code())
	}
	query += " ORDER BY e.start_time ASC"

	var rows []*executionRow
	if err := sqlscan.Select(ctx, e.db, &rows, query, args...); err != nil {
		return nil, mssql.UpstreamError(catalog.EntityExecution, "error while searching executions of package "+q.Package.Path(), err)
	}
	return toExecutions(rows), nil
}

func (e *ExecutionRepository) GetExecution(ctx context.Context, id catalog.ExecutionID) (*catalog.Execution, error) {
	var row executionRow
	if err := sqlscan.Get(ctx, e.db, &row, getExecutionByID, int64(id)); err != nil {
		if sqlscan.NotFound(err) {
			return nil, errors.NotFound(catalog.EntityExecution, "no execution with id "+id.String())
		}
		return nil, mssql.UpstreamError(catalog.EntityExecution, "error while getting execution", err)
	}
	return row.toExecution(), nil
}

// GetMessages reads the messages of an execution newest first, every type is read when types is empty
func (e *ExecutionRepository) GetMessages(ctx context.Context, id catalog.ExecutionID, types []catalog.MessageType) ([]*catalog.OperationMessage, error) {
	query := getMessages
	args := []any{int64(id)}
	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, messageType := range types {
			args = append(args, int(messageType))
			placeholders[i] = fmt.Sprintf("@p%d", len(args))
		}
		query += " AND om.message_type IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY om.message_time DESC"

	var rows []*messageRow
	if err := sqlscan.Select(ctx, e.db, &rows, query, args...); err != nil {
		return nil, mssql.UpstreamError(catalog.EntityOperationMessage, "error while getting messages of execution "+id.String(), err)
	}

	messages := make([]*catalog.OperationMessage, len(rows))
	for i, row := range rows {
		messages[i] = row.toMessage()
	}
	return messages, nil
}
