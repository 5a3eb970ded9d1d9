// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan

import (
	"github.com/nxgtw/go-msgchan/payload"
)

// Loop is a cooperative event loop, which can be woken from other goroutines.
type Loop interface {
	// NewAsync registers fn to be run on the loop goroutine
	// each time the returned handle is triggered.
	NewAsync(fn func()) (Async, error)
}

// Async is a wakeup handle of a Loop.
type Async interface {
	// Send triggers the handle. It is safe to call from any goroutine.
	// Several calls made before the loop runs the function may be coalesced into one run.
	Send() error
	// Close unregisters the handle. The function is not started after Close returns,
	// a run, which has already started, completes.
	Close() error
}

// Callback is called on the loop goroutine for every message of a notifying channel.
// Returned errors and panics are reported to the registry's error handler.
type Callback func(p payload.Payload) error
