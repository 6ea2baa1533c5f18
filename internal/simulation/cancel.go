package simulation

import "go.uber.org/atomic"

// CancelToken is a cooperative cancellation flag an embedding host can set
// from another goroutine; the driver checks it at each step boundary and
// before each write-frame emission.
type CancelToken struct {
	cancelled atomic.Bool
}

// Cancel requests that the driver stop at the next check point.
func (c *CancelToken) Cancel() { c.cancelled.Store(true) }

// Cancelled reports whether Cancel has been called.
func (c *CancelToken) Cancelled() bool { return c.cancelled.Load() }
