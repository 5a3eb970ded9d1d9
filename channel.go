// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan

import (
	"sync/atomic"

	"github.com/nxgtw/go-msgchan/mq"
	"github.com/nxgtw/go-msgchan/payload"

	"github.com/pkg/errors"
)

// Channel is a handle to a registered channel.
// Every handle holds one reference and must be closed exactly once.
// A handle may be used from several goroutines.
type Channel struct {
	e      *entry
	closed atomic.Bool
}

// Name returns the name of the channel.
func (c *Channel) Name() string {
	return c.e.name
}

// Cap returns the limit of the channel.
func (c *Channel) Cap() int {
	return c.e.queue.Cap()
}

// Len returns the number of pending messages.
func (c *Channel) Len() int {
	return c.e.queue.Len()
}

// Refs returns the number of open handles to the channel.
func (c *Channel) Refs() int {
	return int(c.e.refs.Load())
}

// Acquire returns a new independent handle to the same channel.
// It fails with ErrClosed, if the handle is closed or the channel is being destroyed.
func (c *Channel) Acquire() (*Channel, error) {
	if c.closed.Load() || !c.e.reg.acquire(c.e) {
		return nil, ErrClosed
	}
	return &Channel{e: c.e}, nil
}

// Send encodes the payload and sends it, waiting for not longer, than the timeout.
// It returns ErrFull, if the message was not accepted in time.
// If the channel notifies a loop, the loop is woken after the message is enqueued.
func (c *Channel) Send(p payload.Payload, timeout mq.Timeout) error {
	if c.closed.Load() {
		return ErrClosed
	}
	data, err := payload.Marshal(p)
	if err != nil {
		return err
	}
	if err = c.e.queue.SendTimeout(data, timeout); err != nil {
		return queueError(err)
	}
	c.e.wake()
	return nil
}

// SendArgs builds a payload from args and sends it.
// It returns false and no error, if the message was not accepted in time.
func (c *Channel) SendArgs(timeout mq.Timeout, args ...any) (bool, error) {
	p, err := payload.Of(args...)
	if err != nil {
		return false, err
	}
	if err = c.Send(p, timeout); err != nil {
		if mq.IsTemporary(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Recv receives and decodes the oldest message, waiting for not longer, than the timeout.
// It returns ErrEmpty, if there was no message in time.
func (c *Channel) Recv(timeout mq.Timeout) (payload.Payload, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	data, err := c.e.queue.ReceiveTimeout(timeout)
	if err != nil {
		return nil, queueError(err)
	}
	return payload.Unmarshal(data)
}

// Notify binds the channel to the loop: from now on each send wakes the loop,
// which calls cb for every pending message.
// It fails with ErrInvalidArgument, if the channel already notifies a loop.
func (c *Channel) Notify(loop Loop, cb Callback) error {
	if c.closed.Load() {
		return ErrClosed
	}
	return c.e.enableBridge(loop, cb)
}

// Stop unbinds the channel from its loop. Later sends don't wake the loop,
// and the channel keeps working as a blocking queue. Stopping a channel,
// which does not notify any loop, is a no-op.
func (c *Channel) Stop() error {
	if c.closed.Load() {
		return ErrClosed
	}
	c.e.stopBridge()
	return nil
}

// Close releases the handle. When the last handle is closed, the channel
// is unregistered and destroyed: pending messages are discarded,
// and blocked senders and receivers return ErrClosed.
// Closing a handle twice returns ErrClosed.
func (c *Channel) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	c.e.reg.release(c.e)
	return nil
}

// queueError returns queue sentinels as is, a misused timeout becomes ErrInvalidArgument.
func queueError(err error) error {
	if err == mq.ErrInvalidTimeout {
		return errors.WithMessage(ErrInvalidArgument, err.Error())
	}
	return err
}
