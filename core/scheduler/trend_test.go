package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goto/jobtrail/core/scheduler"
)

func TestTrendAnalyzer(t *testing.T) {
	analyzer := scheduler.NewTrendAnalyzer(scheduler.DefaultTrendThresholdPercent)
	average := 100.0

	t.Run("should mark runs beyond the threshold as slower", func(t *testing.T) {
		trend := analyzer.Analyze(130, &average)

		assert.Equal(t, scheduler.TrendSlower, trend.Trend)
		assert.Equal(t, "+30%", trend.Diff())
	})
	t.Run("should mark runs below the threshold as faster", func(t *testing.T) {
		trend := analyzer.Analyze(70, &average)

		assert.Equal(t, scheduler.TrendFaster, trend.Trend)
		assert.Equal(t, "-30%", trend.Diff())
	})
	t.Run("should keep runs within the threshold normal", func(t *testing.T) {
		for _, current := range []float64{110, 120, 80, 100} {
			trend := analyzer.Analyze(current, &average)

			assert.Equal(t, scheduler.TrendNormal, trend.Trend)
			assert.Nil(t, trend.DiffPercent)
			assert.Empty(t, trend.Diff())
		}
	})
	t.Run("should truncate the displayed diff", func(t *testing.T) {
		avg := 300.0
		trend := analyzer.Analyze(403, &avg)

		assert.Equal(t, "+34%", trend.Diff())
	})
	t.Run("should be normal without an average", func(t *testing.T) {
		zero := 0.0

		assert.Equal(t, scheduler.TrendNormal, analyzer.Analyze(500, nil).Trend)
		assert.Equal(t, scheduler.TrendNormal, analyzer.Analyze(500, &zero).Trend)
	})
	t.Run("should fall back to the default threshold", func(t *testing.T) {
		trend := scheduler.NewTrendAnalyzer(0).Analyze(119, &average)

		assert.Equal(t, scheduler.TrendNormal, trend.Trend)
	})
}
