package catalog

import (
	"time"

	"github.com/goto/jobtrail/core/catalog"
)

const executionColumns = `e.execution_id, e.folder_name, e.project_name, e.package_name, e.status, e.start_time, e.end_time`

type executionRow struct {
	ID        int64      `db:"execution_id"`
	Folder    string     `db:"folder_name"`
	Project   string     `db:"project_name"`
	Package   string     `db:"package_name"`
	Status    int        `db:"status"`
	StartTime *time.Time `db:"start_time"`
	EndTime   *time.Time `db:"end_time"`
}

func (r *executionRow) toExecution() *catalog.Execution {
	execution := &catalog.Execution{
		ID:      catalog.ExecutionID(r.ID),
		Folder:  r.Folder,
		Project: r.Project,
		Package: r.Package,
		Status:  catalog.ExecutionStatus(r.Status),
	}
	if r.StartTime != nil {
		execution.StartTime = r.StartTime.UTC()
	}
	if r.EndTime != nil {
		end := r.EndTime.UTC()
		execution.EndTime = &end
	}
	return execution
}

func toExecutions(rows []*executionRow) []*catalog.Execution {
	executions := make([]*catalog.Execution, len(rows))
	for i, row := range rows {
		executions[i] = row.toExecution()
	}
	return executions
}

type messageRow struct {
	ID          int64     `db:"operation_message_id"`
	MessageTime time.Time `db:"message_time"`
	MessageType int       `db:"message_type"`
	Message     string    `db:"message"`
}

func (r *messageRow) toMessage() *catalog.OperationMessage {
	return &catalog.OperationMessage{
		ID:   r.ID,
		Time: r.MessageTime.UTC(),
		Type: catalog.MessageType(r.MessageType),
		Text: r.Message,
	}
}
