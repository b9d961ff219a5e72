package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goto/salt/log"
	"github.com/stretchr/testify/assert"

	"github.com/goto/jobtrail/internal/utils"
)

func TestRetry(t *testing.T) {
	logger := log.NewNoop()
	ctx := context.Background()

	t.Run("should stop at the first success", func(t *testing.T) {
		calls := 0
		err := utils.Retry(ctx, logger, 3, time.Millisecond, func(context.Context) error {
			calls++
			if calls < 2 {
				return errors.New("login timeout")
			}
			return nil
		})

		assert.NoError(t, err)
		assert.Equal(t, 2, calls)
	})
	t.Run("should return the last error when attempts run out", func(t *testing.T) {
		calls := 0
		err := utils.Retry(ctx, logger, 3, time.Millisecond, func(context.Context) error {
			calls++
			return errors.New("login timeout")
		})

		assert.EqualError(t, err, "login timeout")
		assert.Equal(t, 3, calls)
	})
	t.Run("should give up when the context is done", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		calls := 0
		err := utils.Retry(cancelled, logger, 5, time.Hour, func(context.Context) error {
			calls++
			return errors.New("login timeout")
		})

		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
