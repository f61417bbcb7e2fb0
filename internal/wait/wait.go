// Package wait implements the bounded polling primitives every suite step is
// built on. A wait runs one polling loop against a condition and fails with a
// deadline_exceeded error when the bound elapses; there is no retry beyond
// that single loop.
package wait

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/tiplinehq/tipline-e2e/internal/errs"
	"github.com/tiplinehq/tipline-e2e/internal/obs"
)

// DefaultTimeout bounds waits whose caller passed no explicit timeout.
const DefaultTimeout = time.Second

// DefaultInterval is the tick between condition checks.
const DefaultInterval = 100 * time.Millisecond

// Condition is one poll tick. Returning an error aborts the wait immediately
// and propagates unmodified; "not yet" is (false, nil).
type Condition func(ctx context.Context) (bool, error)

// Until polls cond every interval until it returns true, the timeout elapses,
// or ctx is cancelled. The condition is checked once immediately so a wait on
// an already-true condition never sleeps.
func Until(ctx context.Context, timeout, interval time.Duration, cond Condition) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		done, err := cond(ctx)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return errs.Wrap(errs.DeadlineExceeded,
					fmt.Sprintf("condition still false after %v", timeout), ctx.Err())
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// minDownloadedFileSize is the smallest byte count at which a downloaded file
// counts as present; anything at or below is a placeholder the browser is
// still writing.
const minDownloadedFileSize = 5

// ForFile polls until a regular file at path exists and holds more than five
// bytes. A missing file is a normal negative tick during the polling window.
// Other stat errors are also treated as not-ready, but logged, since they can
// mask real failures (wrong permissions on a parent directory). The probe
// stats rather than reads; a partially written download can be large.
func ForFile(ctx context.Context, path string, timeout, interval time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := obs.From(ctx).With("pkg", "wait", "path", path)

	err := Until(ctx, timeout, interval, func(ctx context.Context) (bool, error) {
		info, err := os.Stat(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				log.Debug("file probe failed, treating as not ready", "error", err)
			}
			return false, nil
		}
		if !info.Mode().IsRegular() {
			return false, nil
		}
		return info.Size() > minDownloadedFileSize, nil
	})
	if err != nil {
		if errs.IsDeadline(err) {
			return errs.Wrap(errs.DeadlineExceeded,
				fmt.Sprintf("file %s never exceeded %d bytes within %v", path, minDownloadedFileSize, timeout), err)
		}
		return err
	}
	return nil
}
