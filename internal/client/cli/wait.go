package cli

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrWaitTimeout = errors.New("timed out waiting for server")

const defaultPollInterval = 200 * time.Millisecond

// waitUntil polls check every PollInterval until it reports done, fails,
// or WaitTimeout elapses.
func (a *App) waitUntil(ctx context.Context, check func(ctx context.Context) (bool, error)) error {
	interval := a.config.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}

	ctx, cancel := context.WithTimeout(ctx, a.config.WaitTimeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := check(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w after %s", ErrWaitTimeout, a.config.WaitTimeout)
		case <-ticker.C:
		}
	}
}
