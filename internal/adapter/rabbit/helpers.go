package rabbit

import (
	"errors"
	"time"

	"gocab/internal/domain/types"
)

// isRecoverableError reports whether the message should be requeued.
// A pickup address that cannot be geocoded will not geocode on retry
// either; anything else is assumed to be an infrastructure blip.
func isRecoverableError(err error) bool {
	return !oneOf(err, types.ErrLocationNotFound, types.ErrRouteNotFound)
}

func oneOf(err error, targets ...error) bool {
	for _, t := range targets {
		if errors.Is(err, t) {
			return true
		}
	}
	return false
}

func retry(n int, sleep time.Duration, fn func() error) error {
	var err error
	for range n {
		if err = fn(); err == nil {
			return nil
		}
		time.Sleep(sleep)
	}
	return err
}
