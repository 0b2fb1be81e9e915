// Package providers holds shared pieces of the remote API clients.
package providers

import (
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"
)

// LinearBackoff waits base, 2*base, 3*base... between attempts — a deliberate
// departure from exponential backoff; these calls sit on an interactive path.
// Retry counts are bounded separately via retry.WithMaxRetries.
func LinearBackoff(base time.Duration) retry.Backoff {
	var attempt int64
	return retry.BackoffFunc(func() (time.Duration, bool) {
		n := atomic.AddInt64(&attempt, 1)
		return time.Duration(n) * base, false
	})
}
