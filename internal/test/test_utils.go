// Copyright 2015 Aleksandr Demakin. All rights reserved.

// Package testutil contains helpers for concurrent tests.
package testutil

import (
	"time"
)

// WaitForFunc calls f asynchronously leaving it some time to finish.
// It returns true, if f completed.
func WaitForFunc(f func(), d time.Duration) bool {
	ch := make(chan bool, 1)
	go func() {
		f()
		ch <- true
	}()
	select {
	case <-ch:
		return true
	case <-time.After(d):
		return false
	}
}

// WaitForChan waits for a value from ch with a timeout.
func WaitForChan[T any](ch <-chan T, d time.Duration) (T, bool) {
	select {
	case value := <-ch:
		return value, true
	case <-time.After(d):
		var zero T
		return zero, false
	}
}

// WaitForCondition polls cond until it returns true or d elapses.
func WaitForCondition(cond func() bool, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(time.Millisecond)
	}
}

// Elapsed runs f and returns its duration.
func Elapsed(f func()) time.Duration {
	now := time.Now()
	f()
	return time.Since(now)
}
