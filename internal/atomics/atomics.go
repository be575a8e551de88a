// Helper functions that deal with atomic variables and their values
package atomics

import (
	"sync/atomic"
	"time"
)

// Tries to subtract value from the atomic source. Success if already 0.
// It retries up to maxRetries times if the CAS fails due to contention.
func Subtract(source *atomic.Uint64, value uint64, maxRetries int) (success bool) {
	retryInterval := 10 * time.Microsecond

	for i := 0; i < maxRetries; i++ {
		current := source.Load()

		if current == 0 {
			success = true
			return
		}

		var newValue uint64
		if value < current {
			newValue = current - value
		}

		// CAS will only succeed if the value has not changed since we last read it.
		if source.CompareAndSwap(current, newValue) {
			success = true
			return
		}

		// CAS failed due to contention, retry
		time.Sleep(retryInterval)
		retryInterval = retryInterval * 2
	}

	success = false // gave up after max attempts
	return
}

// Waits until atomic value reads 0 three consecutive times in a row, with backoff and timeout
func WaitUntilZero(value *atomic.Uint64, timeout time.Duration) (reachedZero bool, lastValue uint64) {
	const successfulStreakCount = 3

	backoff := 50 * time.Millisecond
	maxBackoff := 1 * time.Second

	deadline := time.Now().Add(timeout)
	zeroStreak := 0

	for {
		lastValue = value.Load()

		if lastValue == 0 {
			zeroStreak++
			if zeroStreak >= successfulStreakCount {
				reachedZero = true
				return
			}
		} else {
			// Reset streak if value is non-zero
			zeroStreak = 0
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			reachedZero = false
			return
		}

		sleep := backoff
		if sleep > remaining {
			sleep = remaining
		}
		time.Sleep(sleep)

		if backoff < maxBackoff {
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}
	}
}
