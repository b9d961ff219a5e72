package ssis

import (
	"time"

	"github.com/xlab/treeprint"

	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/catalog"
)

type executionView struct {
	ExecutionID string `json:"execution_id" yaml:"execution_id"`
	Package     string `json:"package" yaml:"package"`
	Status      string `json:"status" yaml:"status"`
	StartTime   string `json:"start_time" yaml:"start_time"`
	EndTime     string `json:"end_time,omitempty" yaml:"end_time,omitempty"`
}

func newExecutionView(execution *catalog.Execution) executionView {
	view := executionView{
		ExecutionID: execution.ID.String(),
		Package:     execution.Reference().Path(),
		Status:      execution.Status.String(),
		StartTime:   execution.StartTime.UTC().Format(time.DateTime),
	}
	if execution.EndTime != nil {
		view.EndTime = execution.EndTime.UTC().Format(time.DateTime)
	}
	return view
}

type executionsView []executionView

func newExecutionsView(executions []*catalog.Execution) executionsView {
	view := make(executionsView, len(executions))
	for i, execution := range executions {
		view[i] = newExecutionView(execution)
	}
	return view
}

func (executionsView) Header() []string {
	return []string{"Execution", "Status", "Started (UTC)", "Ended (UTC)"}
}

func (v executionsView) Rows() [][]string {
	rows := make([][]string, len(v))
	for i, execution := range v {
		rows[i] = []string{execution.ExecutionID, printer.Status(execution.Status), execution.StartTime, execution.EndTime}
	}
	return rows
}

type messageView struct {
	Time    string `json:"time" yaml:"time"`
	Type    string `json:"type" yaml:"type"`
	Message string `json:"message" yaml:"message"`
}

type executionDetailView struct {
	executionView `yaml:",inline"`
	Messages      []messageView `json:"messages" yaml:"messages"`
}

func newExecutionDetailView(detail *catalog.ExecutionDetail) *executionDetailView {
	view := &executionDetailView{
		executionView: newExecutionView(detail.Execution),
		Messages:      make([]messageView, len(detail.Messages)),
	}
	for i, message := range detail.Messages {
		view.Messages[i] = messageView{
			Time:    message.Time.UTC().Format(time.DateTime),
			Type:    message.Type.String(),
			Message: message.Text,
		}
	}
	return view
}

func (*executionDetailView) Header() []string {
	return []string{"Time (UTC)", "Type", "Message"}
}

func (v *executionDetailView) Rows() [][]string {
	rows := make([][]string, len(v.Messages))
	for i, message := range v.Messages {
		rows[i] = []string{message.Time, message.Type, message.Message}
	}
	return rows
}

func (v *executionDetailView) Tree() treeprint.Tree {
	tree := treeprint.New()
	execution := tree.AddBranch("execution " + v.ExecutionID + " " + printer.Status(v.Status))
	execution.AddNode("package: " + v.Package)
	execution.AddNode("started: " + v.StartTime)
	if v.EndTime != "" {
		execution.AddNode("ended: " + v.EndTime)
	}
	messages := execution.AddBranch("messages")
	for _, message := range v.Messages {
		messages.AddNode(message.Time + " [" + message.Type + "] " + message.Message)
	}
	return tree
}
