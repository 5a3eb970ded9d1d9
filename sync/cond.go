// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"sync"
	"time"

	"github.com/nxgtw/go-msgchan/internal/array"
)

// waiter is a one-shot notification channel of a single blocked goroutine.
type waiter chan struct{}

// Cond is a condition variable implemented as a queue of waiters.
// Unlike sync.Cond it supports waiting with a timeout.
// The zero value is not usable, use NewCond.
type Cond struct {
	L        sync.Locker
	listLock sync.Mutex
	waiters  *array.Ring[waiter]
}

// NewCond returns new condvar associated with the locker l.
func NewCond(l sync.Locker) *Cond {
	return &Cond{L: l, waiters: array.NewRing[waiter](0)}
}

// Wait atomically unlocks c.L and suspends execution of the calling goroutine.
// After later resuming execution, Wait locks c.L before returning.
// As with sync.Cond, the caller must re-check its condition in a loop.
func (c *Cond) Wait() {
	c.doWait(time.Duration(-1))
}

// WaitTimeout is the same as Wait, but it waits for not longer, than timeout.
// It returns false, if the timeout has expired. c.L is locked in both cases.
func (c *Cond) WaitTimeout(timeout time.Duration) bool {
	return c.doWait(timeout)
}

// Signal wakes one goroutine waiting on c, if there is any.
func (c *Cond) Signal() {
	c.listLock.Lock()
	c.signalN(1)
	c.listLock.Unlock()
}

// Broadcast wakes all goroutines waiting on c.
func (c *Cond) Broadcast() {
	c.listLock.Lock()
	c.signalN(c.waiters.Len())
	c.listLock.Unlock()
}

// Waiters returns the number of goroutines currently blocked on c.
func (c *Cond) Waiters() int {
	c.listLock.Lock()
	defer c.listLock.Unlock()
	return c.waiters.Len()
}

// signalN wakes n waiters. Must be run with the list mutex locked.
func (c *Cond) signalN(count int) {
	for signaled := 0; c.waiters.Len() > 0 && signaled < count; signaled++ {
		close(c.waiters.PopFront())
	}
}

func (c *Cond) doWait(timeout time.Duration) bool {
	// the waiter is added before c.L is unlocked, so a signal
	// sent right after the unlock can't be missed.
	w := c.addToWaitersList()
	c.L.Unlock()
	defer c.L.Lock()
	if timeout < 0 {
		<-w
		return true
	}
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-w:
			return true
		case <-timer.C:
		}
	}
	// timeout has expired. we must delete ourselves from the waiting queue.
	c.listLock.Lock()
	idx := c.waiters.Index(func(other waiter) bool { return other == w })
	if idx >= 0 {
		c.waiters.PopAt(idx)
	}
	c.listLock.Unlock()
	if idx < 0 {
		// the waiter has already been popped by a concurrent signal.
		<-w
		return true
	}
	return false
}

func (c *Cond) addToWaitersList() waiter {
	w := make(waiter)
	c.listLock.Lock()
	c.waiters.PushBack(w)
	c.listLock.Unlock()
	return w
}
