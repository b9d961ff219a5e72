package utils

import (
	"context"
	"time"

	"github.com/goto/salt/log"
)

// Retry calls f up to retryMax times with exponential backoff starting at retryBackoff,
// it stops early when ctx is done and returns the last error
func Retry(ctx context.Context, l log.Logger, retryMax int, retryBackoff time.Duration, f func(context.Context) error) error {
	var err error
	sleepTime := retryBackoff

	for i := 0; i < retryMax; i++ {
		err = f(ctx)
		if err == nil {
			return nil
		}
		if i == retryMax-1 {
			break
		}

		l.Warn("retry: %d, error: %v", i, err)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(sleepTime):
		}
		sleepTime *= 2
	}

	return err
}
