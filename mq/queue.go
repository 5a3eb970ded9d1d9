// Copyright 2016 Aleksandr Demakin. All rights reserved.

package mq

import (
	"sync"
	"time"

	"github.com/nxgtw/go-msgchan/internal/array"
	ipc_sync "github.com/nxgtw/go-msgchan/sync"
)

// Unbounded is the limit of a queue, which accepts any number of messages.
const Unbounded = -1

const maxPrealloc = 64

// Queue is an in-process FIFO of byte messages.
// Its limit defines the admission rule for senders:
//	limit < 0 - every send is accepted immediately.
//	limit > 0 - a send is accepted while the queue holds fewer than limit messages.
//	limit = 0 - a send is accepted only if a receiver is waiting. The message
//	is handed to that receiver directly and is never pending, so Len is always 0.
// The queue owns accepted messages until they are received or the queue is closed.
type Queue struct {
	name     string
	limit    int
	mu       sync.Mutex
	notFull  *ipc_sync.Cond
	notEmpty *ipc_sync.Cond
	msgs     *array.Ring[[]byte]
	// takers are receivers of a zero-limit queue, which wait for a handoff.
	takers *array.Ring[*taker]
	closed bool
}

// taker is a receiver slot of a zero-limit queue.
// A sender fills it under the queue lock.
type taker struct {
	data []byte
	done bool
}

// New returns a new queue with the given name and limit.
func New(name string, limit int) *Queue {
	q := &Queue{name: name, limit: limit}
	q.notFull = ipc_sync.NewCond(&q.mu)
	q.notEmpty = ipc_sync.NewCond(&q.mu)
	// the ring grows on demand, a huge limit does not preallocate.
	q.msgs = array.NewRing[[]byte](min(max(limit, 0), maxPrealloc))
	q.takers = array.NewRing[*taker](0)
	return q
}

// Name returns the name of the queue.
func (q *Queue) Name() string {
	return q.name
}

// Cap returns the limit of the queue.
func (q *Queue) Cap() int {
	return q.limit
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.msgs.Len()
}

// Closed returns true, if the queue has been closed.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Send sends a message. It blocks until the message is accepted.
func (q *Queue) Send(data []byte) error {
	return q.SendTimeout(data, Forever)
}

// SendTimeout sends a message, waiting for not longer, than the timeout.
// The queue takes the ownership of data only if nil error is returned.
// It returns ErrFull, if the message was not admitted in time.
func (q *Queue) SendTimeout(data []byte, timeout Timeout) error {
	if err := timeout.validate(); err != nil {
		return err
	}
	q.mu.Lock()
	// defer is not used, as the lock must be released before signaling.
	q.waitLocked(q.notFull, q.canSendLocked, timeout)
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	if !q.canSendLocked() {
		q.mu.Unlock()
		return ErrFull
	}
	if q.limit == 0 {
		r := q.takers.PopFront()
		r.data, r.done = data, true
		q.mu.Unlock()
		// the cond does not know, which waiter owns the slot.
		q.notEmpty.Broadcast()
		return nil
	}
	q.msgs.PushBack(data)
	q.mu.Unlock()
	q.notEmpty.Signal()
	return nil
}

// Receive receives a message. It blocks if the queue is empty.
func (q *Queue) Receive() ([]byte, error) {
	return q.ReceiveTimeout(Forever)
}

// ReceiveTimeout receives the oldest message, waiting for not longer, than the timeout.
// The ownership of the message is passed to the caller.
// It returns ErrEmpty, if there was no message in time.
func (q *Queue) ReceiveTimeout(timeout Timeout) ([]byte, error) {
	if err := timeout.validate(); err != nil {
		return nil, err
	}
	if q.limit == 0 {
		return q.takeTimeout(timeout)
	}
	q.mu.Lock()
	q.waitLocked(q.notEmpty, q.hasMessagesLocked, timeout)
	if q.closed {
		q.mu.Unlock()
		return nil, ErrClosed
	}
	if q.msgs.Len() == 0 {
		q.mu.Unlock()
		return nil, ErrEmpty
	}
	data := q.msgs.PopFront()
	q.mu.Unlock()
	q.notFull.Signal()
	return data, nil
}

// takeTimeout waits for a sender of a zero-limit queue to hand a message over.
func (q *Queue) takeTimeout(timeout Timeout) ([]byte, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil, ErrClosed
	}
	if timeout.IsNoWait() {
		q.mu.Unlock()
		return nil, ErrEmpty
	}
	r := &taker{}
	q.takers.PushBack(r)
	// a sender may be waiting for us.
	q.notFull.Signal()
	q.waitLocked(q.notEmpty, func() bool { return r.done }, timeout)
	if r.done {
		// the handoff happened before the queue was closed.
		q.mu.Unlock()
		return r.data, nil
	}
	if idx := q.takers.Index(func(other *taker) bool { return other == r }); idx >= 0 {
		q.takers.PopAt(idx)
	}
	closed := q.closed
	q.mu.Unlock()
	if closed {
		return nil, ErrClosed
	}
	return nil, ErrEmpty
}

// Close destroys the queue. Pending messages are discarded,
// and all blocked senders and receivers return ErrClosed.
// Closing a closed queue is a no-op.
func (q *Queue) Close() error {
	return q.CloseFunc(nil)
}

// CloseFunc is the same as Close, but it calls discard for every
// pending message in FIFO order before dropping it.
func (q *Queue) CloseFunc(discard func(data []byte)) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	q.msgs.Reset(discard)
	q.takers.Reset(nil)
	q.mu.Unlock()
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
	return nil
}

func (q *Queue) canSendLocked() bool {
	switch {
	case q.limit < 0:
		return true
	case q.limit > 0:
		return q.msgs.Len() < q.limit
	default:
		return q.takers.Len() > 0
	}
}

func (q *Queue) hasMessagesLocked() bool {
	return q.msgs.Len() > 0
}

// waitLocked waits on cond until ready returns true, the queue is closed,
// or the timeout expires. q.mu must be held.
func (q *Queue) waitLocked(cond *ipc_sync.Cond, ready func() bool, timeout Timeout) {
	switch timeout.mode {
	case modeNoWait:
		return
	case modeForever:
		for !q.closed && !ready() {
			cond.Wait()
		}
		return
	}
	deadline := time.Now().Add(timeout.d)
	for !q.closed && !ready() {
		left := time.Until(deadline)
		if left <= 0 {
			return
		}
		cond.WaitTimeout(left)
	}
}
