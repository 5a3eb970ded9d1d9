// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan

import (
	"github.com/nxgtw/go-msgchan/mq"

	"github.com/pkg/errors"
)

var (
	// ErrDuplicateName is returned by Create, if a channel with the same name exists.
	ErrDuplicateName = errors.New("duplicate name")
	// ErrNotFound is returned by Get, if there is no channel with the given name.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is returned for empty names, nil loops and callbacks,
	// and for non-positive bounded timeouts.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrClosed is returned for operations on closed handles, destroyed channels and closed registries.
	ErrClosed = mq.ErrClosed
	// ErrFull is returned by Send, if the message was not accepted in time.
	ErrFull = mq.ErrFull
	// ErrEmpty is returned by Recv, if there was no message in time.
	ErrEmpty = mq.ErrEmpty
)

// IsNotFound returns true, if the error is caused by a missing channel.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// IsDuplicateName returns true, if the error is caused by a name collision.
func IsDuplicateName(err error) bool {
	return errors.Cause(err) == ErrDuplicateName
}

// IsInvalidArgument returns true, if the error is caused by a misuse of the API.
func IsInvalidArgument(err error) bool {
	cause := errors.Cause(err)
	return cause == ErrInvalidArgument || cause == mq.ErrInvalidTimeout
}

// IsClosed returns true, if the error is caused by a closed channel or registry.
func IsClosed(err error) bool {
	return errors.Cause(err) == ErrClosed
}

// IsTemporary returns true for send and receive timeouts.
func IsTemporary(err error) bool {
	return mq.IsTemporary(err)
}
