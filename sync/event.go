// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"time"
)

// Event is a synchronization primitive used for notification.
// If it is signaled by a call to Set(), it'll stay in this state,
// unless someone calls Wait(). After it the event is reset into non-signaled state.
// Several calls to Set() made before a Wait() are equivalent to one.
type Event event

// NewEvent creates a new event.
// It uses the default implementation on the current platform.
//	initial - if true, the event will be set after creation.
func NewEvent(initial bool) (*Event, error) {
	e, err := newEvent(initial)
	if err != nil {
		return nil, err
	}
	return (*Event)(e), nil
}

// Set sets the specified event object to the signaled state.
// It is safe to call Set from any goroutine, also after the event was closed.
func (e *Event) Set() {
	(*event)(e).set()
}

// Wait waits for the event to be signaled.
// It returns immediately, if the event has been closed.
func (e *Event) Wait() {
	(*event)(e).waitTimeout(time.Duration(-1))
}

// WaitTimeout waits until the event is signaled or the timeout elapses.
func (e *Event) WaitTimeout(timeout time.Duration) bool {
	return (*event)(e).waitTimeout(timeout)
}

// Close releases event's resources. No goroutine should wait on the event after that.
func (e *Event) Close() error {
	return (*event)(e).close()
}
