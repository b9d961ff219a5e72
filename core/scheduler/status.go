package scheduler

import "strings"

// RunStatus is the run_status code written by the agent into the job history
type RunStatus int

const (
	StatusUnknown    RunStatus = -1
	StatusFailed     RunStatus = 0
	StatusSucceeded  RunStatus = 1
	StatusRetry      RunStatus = 2
	StatusCanceled   RunStatus = 3
	StatusInProgress RunStatus = 4
)

const StatusTextNotRun = "Not Run"

var runStatusText = map[RunStatus]string{
	StatusFailed:     "Failed",
	StatusSucceeded:  "Succeeded",
	StatusRetry:      "Retry",
	StatusCanceled:   "Canceled",
	StatusInProgress: "In Progress",
}

// RunStatusFrom never fails, codes outside the agent lookup become StatusUnknown
func RunStatusFrom(code int) RunStatus {
	status := RunStatus(code)
	if _, ok := runStatusText[status]; ok {
		return status
	}
	return StatusUnknown
}

func (s RunStatus) Code() int {
	return int(s)
}

func (s RunStatus) String() string {
	if text, ok := runStatusText[s]; ok {
		return text
	}
	return "Unknown"
}

func (s RunStatus) IsFailed() bool {
	return s == StatusFailed
}

// RunStatusFromText accepts both the label and the lowercase underscore form, e.g. in_progress
func RunStatusFromText(text string) (RunStatus, bool) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(text)), "_", " ")
	for status, label := range runStatusText {
		if strings.ToLower(label) == normalized {
			return status, true
		}
	}
	return StatusUnknown, false
}
