// Package domain defines the background task ports
package domain

import "context"

// Func is a unit of background work
// ctx carries the request values of the submitter but not its cancellation
type Func func(ctx context.Context) error

// RunnerPort schedules detached work and drains it on shutdown
type RunnerPort interface {
	// Submit schedules fn and returns without waiting for it
	Submit(ctx context.Context, name string, fn Func)
	// Wait blocks until in flight tasks finish or ctx is done
	Wait(ctx context.Context) error
}
