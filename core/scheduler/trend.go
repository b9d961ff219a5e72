package scheduler

import (
	"fmt"
	"math"
)

const DefaultTrendThresholdPercent = 20.0

type Trend string

const (
	TrendNormal Trend = "normal"
	TrendSlower Trend = "slower"
	TrendFaster Trend = "faster"
)

func (t Trend) String() string {
	return string(t)
}

// DurationTrend compares a run with the trailing average duration of its job
type DurationTrend struct {
	Trend       Trend
	DiffPercent *float64
}

// Diff renders the deviation with an explicit sign, e.g. +34% or -22%. Normal runs have no diff.
func (d DurationTrend) Diff() string {
	if d.DiffPercent == nil {
		return ""
	}

	magnitude := int64(math.Abs(*d.DiffPercent))
	if *d.DiffPercent < 0 {
		return fmt.Sprintf("-%d%%", magnitude)
	}
	return fmt.Sprintf("+%d%%", magnitude)
}

// TrendAnalyzer classifies durations, a deviation beyond the threshold in either direction is a trend
type TrendAnalyzer struct {
	thresholdPercent float64
}

func NewTrendAnalyzer(thresholdPercent float64) TrendAnalyzer {
	if thresholdPercent <= 0 {
		thresholdPercent = DefaultTrendThresholdPercent
	}
	return TrendAnalyzer{thresholdPercent: thresholdPercent}
}

// Analyze takes both durations in seconds, a missing or zero average is always normal
func (a TrendAnalyzer) Analyze(currentSeconds float64, averageSeconds *float64) DurationTrend {
	if averageSeconds == nil || *averageSeconds == 0 {
		return DurationTrend{Trend: TrendNormal}
	}

	diff := (currentSeconds - *averageSeconds) / *averageSeconds * 100
	switch {
	case diff > a.thresholdPercent:
		return DurationTrend{Trend: TrendSlower, DiffPercent: &diff}
	case diff < -a.thresholdPercent:
		return DurationTrend{Trend: TrendFaster, DiffPercent: &diff}
	default:
		return DurationTrend{Trend: TrendNormal}
	}
}
