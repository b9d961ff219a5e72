package scheduler

import (
	"time"

	"github.com/goto/jobtrail/core/catalog"
	"github.com/goto/jobtrail/internal/lib/packed"
)

type StepState string

const (
	StepExecuted          StepState = "executed"
	StepInferredSucceeded StepState = "inferred_succeeded"
	StepInferredFailed    StepState = "inferred_failed"
	StepNotExecuted       StepState = "not_executed"
)

func (s StepState) String() string {
	return string(s)
}

type CorrelationOutcome string

const (
	CorrelationNotApplicable CorrelationOutcome = "not_applicable"
	CorrelationPending       CorrelationOutcome = "pending"
	CorrelationExplicit      CorrelationOutcome = "explicit"
	CorrelationMatched       CorrelationOutcome = "correlated"
	CorrelationUnresolved    CorrelationOutcome = "unresolved"
	CorrelationSkipped       CorrelationOutcome = "skipped"
)

func (c CorrelationOutcome) String() string {
	return string(c)
}

const (
	MessageInferredSucceeded = "Step completed successfully (no detailed history available)"
	MessageNotExecuted       = "Step not executed (job failed before reaching this step)"

	commandPreviewLength = 200
)

// StepTimelineEntry is the reconciled view of one defined step within one run instance
type StepTimelineEntry struct {
	StepID    int
	StepName  string
	Command   string
	Subsystem string

	State             StepState
	Status            *RunStatus
	StatusText        string
	RunDuration       int
	FormattedDuration string
	Message           string
	SQLMessageID      *int
	SQLSeverity       *int

	Package            *catalog.PackageReference
	ExecutionID        *catalog.ExecutionID
	ExecutionStatus    *catalog.ExecutionStatus
	ExecutionStartTime *time.Time
	Correlation        CorrelationOutcome
}

func (e *StepTimelineEntry) Executed() bool {
	return e.State != StepNotExecuted
}

func (e *StepTimelineEntry) CommandPreview() string {
	runes := []rune(e.Command)
	if len(runes) > commandPreviewLength {
		return string(runes[:commandPreviewLength])
	}
	return e.Command
}

// NeedsCorrelation is true for package steps without an explicit execution id
func (e *StepTimelineEntry) NeedsCorrelation() bool {
	return e.Package != nil && e.ExecutionID == nil
}

// Correlate attaches the matched catalog execution
func (e *StepTimelineEntry) Correlate(execution *catalog.Execution) {
	id := execution.ID
	status := execution.Status
	start := execution.StartTime
	e.ExecutionID = &id
	e.ExecutionStatus = &status
	e.ExecutionStartTime = &start
	e.Correlation = CorrelationMatched
}

// RunTimeline is the complete ordered list of steps of one run instance
type RunTimeline struct {
	JobID      JobID
	JobName    JobName
	InstanceID InstanceID
	Outcome    *HistoryRecord
	Steps      []*StepTimelineEntry
}

type stepFacts struct {
	hasRow         bool
	stepID         int
	lastStepRun    int
	hasLastStepRun bool
	jobFailed      bool
}

func classifyStep(f stepFacts) StepState {
	switch {
	case f.hasRow:
		return StepExecuted
	case !f.hasLastStepRun || f.stepID > f.lastStepRun:
		return StepNotExecuted
	case f.stepID == f.lastStepRun && f.jobFailed:
		return StepInferredFailed
	default:
		return StepInferredSucceeded
	}
}

// BuildTimeline merges the defined steps with the sparse history of one run.
// Exactly one entry is produced per defined step, ordered by step id.
//
// Steps without their own row are inferred from the "last step to run was step N"
// hint of the outcome row. A successful run carries no such hint, so its steps
// without rows are reported as not executed.
func BuildTimeline(steps []JobStep, history History) []*StepTimelineEntry {
	outcome, hasOutcome := history.Outcome()

	var (
		lastStepRun    int
		hasLastStepRun bool
		jobFailed      bool
	)
	if hasOutcome {
		jobFailed = outcome.Status.IsFailed()
		lastStepRun, hasLastStepRun = LastStepRun(outcome.Message)
	}

	job := Job{Steps: steps}
	entries := make([]*StepTimelineEntry, 0, len(steps))
	for _, step := range job.SortedSteps() {
		record, hasRow := history.Step(step.ID)
		state := classifyStep(stepFacts{
			hasRow:         hasRow,
			stepID:         step.ID,
			lastStepRun:    lastStepRun,
			hasLastStepRun: hasLastStepRun,
			jobFailed:      jobFailed,
		})

		var entry *StepTimelineEntry
		switch state {
		case StepExecuted:
			entry = entryFromRecord(step, record, state)
			if record.StepName != "" {
				entry.StepName = record.StepName
			}
		case StepInferredFailed:
			entry = entryFromRecord(step, outcome, state)
		case StepInferredSucceeded:
			status := StatusSucceeded
			entry = newEntry(step, state)
			entry.Status = &status
			entry.StatusText = status.String()
			entry.FormattedDuration = packed.NotAvailable
			entry.Message = MessageInferredSucceeded
		default:
			entry = newEntry(step, state)
			entry.StatusText = StatusTextNotRun
			entry.FormattedDuration = packed.NotAvailable
			entry.Message = MessageNotExecuted
		}

		annotatePackage(entry)
		entries = append(entries, entry)
	}
	return entries
}

func newEntry(step JobStep, state StepState) *StepTimelineEntry {
	return &StepTimelineEntry{
		StepID:      step.ID,
		StepName:    step.Name,
		Command:     step.Command,
		Subsystem:   step.Subsystem,
		State:       state,
		Correlation: CorrelationNotApplicable,
	}
}

func entryFromRecord(step JobStep, record *HistoryRecord, state StepState) *StepTimelineEntry {
	status := record.Status
	entry := newEntry(step, state)
	entry.Status = &status
	entry.StatusText = status.String()
	entry.RunDuration = record.RunDuration
	entry.FormattedDuration = record.FormattedDuration()
	entry.Message = record.Message
	entry.SQLMessageID = record.SQLMessageID
	entry.SQLSeverity = record.SQLSeverity
	return entry
}

func annotatePackage(entry *StepTimelineEntry) {
	if ref, ok := ExtractPackageReference(entry.Command); ok {
		entry.Package = &ref
		entry.Subsystem = SubsystemSSIS
		entry.Correlation = CorrelationPending
	}

	if id, ok := ExtractExecutionID(entry.Message); ok {
		entry.ExecutionID = &id
		entry.Correlation = CorrelationExplicit
	}
}
