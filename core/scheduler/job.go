package scheduler

import (
	"sort"
	"strconv"

	"github.com/google/uuid"

	"github.com/goto/jobtrail/internal/errors"
)

const (
	EntityJob        = "job"
	EntityJobRun     = "job_run"
	EntityJobStep    = "job_step"
	EntityJobHistory = "job_history"
	EntityCategory   = "category"
	EntityStats      = "job_stats"

	// OutcomeStepID is the step id of the history row summarizing a whole run
	OutcomeStepID = 0

	DisplayTimeFormat = "2006-01-02 15:04:05"
	LastRunFormat     = "2006-01-02 03:04:05 PM MST"
	NeverRun          = "Never"
)

type (
	JobID   uuid.UUID
	JobName string
)

func JobIDFrom(raw string) (JobID, error) {
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return JobID{}, errors.InvalidArgument(EntityJob, "invalid value for job id "+raw)
	}
	return JobID(parsed), nil
}

func (i JobID) UUID() uuid.UUID {
	return uuid.UUID(i)
}

func (i JobID) String() string {
	return uuid.UUID(i).String()
}

func (i JobID) IsEmpty() bool {
	return i.UUID() == uuid.Nil
}

func JobNameFrom(name string) (JobName, error) {
	if name == "" {
		return "", errors.InvalidArgument(EntityJob, "job name is empty")
	}
	return JobName(name), nil
}

func (n JobName) String() string {
	return string(n)
}

type InstanceID int64

func InstanceIDFrom(raw string) (InstanceID, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.InvalidArgument(EntityJobRun, "invalid value for instance id "+raw)
	}
	return InstanceID(id), nil
}

func (i InstanceID) String() string {
	return strconv.FormatInt(int64(i), 10)
}

// Job is the definition of an agent job, independent of any run
type Job struct {
	ID       JobID
	Name     JobName
	Enabled  bool
	Category string
	Steps    []JobStep
}

type JobStep struct {
	ID        int
	Name      string
	Command   string
	Subsystem string
}

// SortedSteps returns the defined steps ordered by step id, step 0 is dropped as it never is a defined step
func (j *Job) SortedSteps() []JobStep {
	steps := make([]JobStep, 0, len(j.Steps))
	for _, step := range j.Steps {
		if step.ID == OutcomeStepID {
			continue
		}
		steps = append(steps, step)
	}
	sort.SliceStable(steps, func(a, b int) bool {
		return steps[a].ID < steps[b].ID
	})
	return steps
}
