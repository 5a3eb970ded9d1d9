// Copyright 2016 Aleksandr Demakin. All rights reserved.

package mq

import (
	"io"
)

// Messenger is an interface which must be satisfied by any
// message queue implementation.
type Messenger interface {
	Send(data []byte) error
	Receive() ([]byte, error)
	io.Closer
}

// TimedMessenger is a Messenger, which supports send/receive timeouts.
type TimedMessenger interface {
	Messenger
	SendTimeout(data []byte, timeout Timeout) error
	ReceiveTimeout(timeout Timeout) ([]byte, error)
}

// Buffered is an object with internal buffer of the given capacity.
type Buffered interface {
	Cap() int
	Len() int
}

// this is to ensure, that Queue satisfies queue interfaces.
var (
	_ Messenger      = (*Queue)(nil)
	_ TimedMessenger = (*Queue)(nil)
	_ Buffered       = (*Queue)(nil)
)
