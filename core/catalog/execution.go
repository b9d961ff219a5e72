package catalog

import (
	"strconv"
	"time"
)

const (
	EntityExecution        = "catalog_execution"
	EntityPackageReference = "package_reference"
	EntityOperationMessage = "operation_message"
)

type ExecutionID int64

func (i ExecutionID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

func ExecutionIDFrom(raw string) (ExecutionID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidExecutionID(raw)
	}
	return ExecutionID(id), nil
}

type ExecutionStatus int

const (
	ExecutionCreated           ExecutionStatus = 1
	ExecutionRunning           ExecutionStatus = 2
	ExecutionCanceled          ExecutionStatus = 3
	ExecutionFailed            ExecutionStatus = 4
	ExecutionPending           ExecutionStatus = 5
	ExecutionEndedUnexpectedly ExecutionStatus = 6
	ExecutionSucceeded         ExecutionStatus = 7
	ExecutionStopping          ExecutionStatus = 8
	ExecutionCompleted         ExecutionStatus = 9
)

const unknownStatusText = "Unknown"

var executionStatusText = map[ExecutionStatus]string{
	ExecutionCreated:           "Created",
	ExecutionRunning:           "Running",
	ExecutionCanceled:          "Canceled",
	ExecutionFailed:            "Failed",
	ExecutionPending:           "Pending",
	ExecutionEndedUnexpectedly: "Ended Unexpectedly",
	ExecutionSucceeded:         "Succeeded",
	ExecutionStopping:          "Stopping",
	ExecutionCompleted:         "Completed",
}

func (s ExecutionStatus) Code() int {
	return int(s)
}

// String maps the catalog status code, codes outside 1..9 are Unknown
func (s ExecutionStatus) String() string {
	if text, ok := executionStatusText[s]; ok {
		return text
	}
	return unknownStatusText
}

func (s ExecutionStatus) IsKnown() bool {
	_, ok := executionStatusText[s]
	return ok
}

// Execution is one package invocation tracked by the SSIS catalog.
// Catalog times are absolute and kept in UTC.
type Execution struct {
	ID        ExecutionID
	Folder    string
	Project   string
	Package   string
	Status    ExecutionStatus
	StartTime time.Time
	EndTime   *time.Time
}

func (e *Execution) Reference() PackageReference {
	return PackageReference{
		Folder:  e.Folder,
		Project: e.Project,
		Package: e.Package,
	}
}

// StartedWithin reports whether the execution started inside [start, end], both bounds inclusive
func (e *Execution) StartedWithin(start, end time.Time) bool {
	return !e.StartTime.Before(start) && !e.StartTime.After(end)
}

type ExecutionDetail struct {
	Execution *Execution
	Messages  []*OperationMessage
}
