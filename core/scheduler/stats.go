package scheduler

import (
	"math"

	"github.com/goto/jobtrail/internal/lib/packed"
)

const nearlyPerfectRate = 99.95

// SuccessRate is the share of succeeded runs in percent. A rate that would round
// up to 100 while failures exist keeps two decimals instead of one.
func SuccessRate(total, succeeded, failed int64) float64 {
	if total <= 0 {
		return 0.0
	}

	rate := float64(succeeded) * 100 / float64(total)
	if rate >= nearlyPerfectRate && failed > 0 {
		return math.Round(rate*100) / 100
	}
	return math.Round(rate*10) / 10
}

// RunCounts are aggregated over the outcome rows of a trailing day window
type RunCounts struct {
	Total          int64
	Failed         int64
	Succeeded      int64
	Running        int64
	AverageSeconds *float64
}

type JobStats struct {
	TotalJobs       int64
	FailedJobs      int64
	SucceededJobs   int64
	RunningJobs     int64
	AverageDuration string
	SuccessRate     float64
}

func NewJobStats(counts RunCounts) *JobStats {
	average := packed.ZeroClock
	if counts.AverageSeconds != nil {
		average = packed.FormatSeconds(int64(*counts.AverageSeconds))
	}

	return &JobStats{
		TotalJobs:       counts.Total,
		FailedJobs:      counts.Failed,
		SucceededJobs:   counts.Succeeded,
		RunningJobs:     counts.Running,
		AverageDuration: average,
		SuccessRate:     SuccessRate(counts.Total, counts.Succeeded, counts.Failed),
	}
}
