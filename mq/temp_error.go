// Copyright 2016 Aleksandr Demakin. All rights reserved.

package mq

import (
	"github.com/pkg/errors"
)

var (
	// ErrFull is returned by a send, which could not complete within its timeout.
	ErrFull error = newTemporaryError(errors.New("the queue is full"))
	// ErrEmpty is returned by a receive, which could not complete within its timeout.
	ErrEmpty error = newTemporaryError(errors.New("the queue is empty"))
	// ErrClosed is returned by operations on a destroyed queue.
	ErrClosed = errors.New("the queue is closed")
	// ErrInvalidTimeout is returned for a bounded timeout, which is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout")
)

type temporaryError struct {
	inner error
}

func (e *temporaryError) isTemporary() bool {
	return true
}

// Temporary reports that the operation may succeed, if retried.
func (e *temporaryError) Temporary() bool {
	return e.isTemporary()
}

func (e *temporaryError) Error() string {
	return e.inner.Error()
}

func newTemporaryError(inner error) *temporaryError {
	return &temporaryError{inner: inner}
}

func isTemporaryError(e error) bool {
	if tmp, ok := e.(*temporaryError); ok {
		return tmp.isTemporary()
	}
	return false
}

// IsTemporary returns true, if an error is a timeout on a full or an empty queue.
// The caller decides whether to retry.
func IsTemporary(err error) bool {
	return isTemporaryError(errors.Cause(err))
}
