// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package sync implements in-process synchronization primitives,
// which are missing from the standard library:
//	Cond - a condition variable with a timed wait.
//	Event - an auto-reset event, which coalesces notifications.
package sync

import "time"

// TimedWaiter is a wait primitive, whose wait operation can be limited with duration.
// A negative timeout means waiting forever, a zero timeout means not waiting at all.
type TimedWaiter interface {
	Wait()
	// WaitTimeout returns false, if the timeout has expired.
	WaitTimeout(timeout time.Duration) bool
}

// this is to ensure, that the primitives satisfy the same minimal interface.
var (
	_ TimedWaiter = (*Cond)(nil)
	_ TimedWaiter = (*Event)(nil)
)
