package ssis

import (
	"bytes"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goto/jobtrail/client/cmd/internal/printer"
	"github.com/goto/jobtrail/core/catalog"
)

func TestViews(t *testing.T) {
	color.NoColor = true
	started := time.Date(2024, 1, 15, 16, 5, 0, 0, time.UTC)
	ended := started.Add(20 * time.Minute)
	execution := &catalog.Execution{ID: 12, Folder: "Finance", Project: "Ledger", Package: "Load.dtsx", Status: catalog.ExecutionFailed, StartTime: started, EndTime: &ended}

	t.Run("executionsView", func(t *testing.T) {
		t.Run("should leave the end empty for running executions", func(t *testing.T) {
			running := &catalog.Execution{ID: 13, Folder: "Finance", Project: "Ledger", Package: "Load.dtsx", Status: catalog.ExecutionRunning, StartTime: ended}

			rows := newExecutionsView([]*catalog.Execution{running, execution}).Rows()

			assert.Equal(t, []string{"13", "Running", "2024-01-15 16:25:00", ""}, rows[0])
			assert.Equal(t, []string{"12", "Failed", "2024-01-15 16:05:00", "2024-01-15 16:25:00"}, rows[1])
		})
	})
	t.Run("executionDetailView", func(t *testing.T) {
		view := newExecutionDetailView(&catalog.ExecutionDetail{
			Execution: execution,
			Messages: []*catalog.OperationMessage{
				{ID: 3, Time: ended, Type: catalog.MessageError, Text: "Data flow failed"},
			},
		})

		t.Run("should flatten the execution fields in json", func(t *testing.T) {
			buf := &bytes.Buffer{}

			require.NoError(t, printer.Print(buf, printer.FormatJSON, view))

			assert.JSONEq(t, `{
				"execution_id": "12",
				"package": "Finance\\Ledger\\Load.dtsx",
				"status": "Failed",
				"start_time": "2024-01-15 16:05:00",
				"end_time": "2024-01-15 16:25:00",
				"messages": [{"time": "2024-01-15 16:25:00", "type": "Error", "message": "Data flow failed"}]
			}`, buf.String())
		})
		t.Run("should list messages in the tree", func(t *testing.T) {
			tree := view.Tree().String()

			assert.Contains(t, tree, "execution 12 Failed")
			assert.Contains(t, tree, "[Error] Data flow failed")
		})
	})
}
