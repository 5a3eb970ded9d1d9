// Copyright 2016 Aleksandr Demakin. All rights reserved.

package msgchan

import (
	"sync/atomic"

	"github.com/nxgtw/go-msgchan/mq"
	"github.com/nxgtw/go-msgchan/payload"

	"github.com/pkg/errors"
)

// bridge delivers messages of a channel to a callback on the loop goroutine.
type bridge struct {
	e       *entry
	async   Async
	cb      Callback
	stopped atomic.Bool
}

func (e *entry) enableBridge(loop Loop, cb Callback) error {
	if loop == nil || cb == nil {
		return errors.Wrap(ErrInvalidArgument, "notify: nil loop or callback")
	}
	e.bridgeMu.Lock()
	defer e.bridgeMu.Unlock()
	if e.bridge.Load() != nil {
		return errors.Wrap(ErrInvalidArgument, "notify: the channel already notifies a loop")
	}
	if e.queue.Closed() {
		return ErrClosed
	}
	b := &bridge{e: e, cb: cb}
	async, err := loop.NewAsync(b.drain)
	if err != nil {
		return errors.Wrap(err, "notify: failed to create async handle")
	}
	b.async = async
	e.bridge.Store(b)
	// messages sent before the bridge existed haven't woken anyone.
	if e.queue.Len() > 0 {
		b.notify()
	}
	return nil
}

func (e *entry) stopBridge() {
	e.bridgeMu.Lock()
	b := e.bridge.Swap(nil)
	e.bridgeMu.Unlock()
	if b != nil {
		b.stop()
	}
}

// wake notifies the loop, if the channel is bound to one.
func (e *entry) wake() {
	if b := e.bridge.Load(); b != nil {
		b.notify()
	}
}

func (b *bridge) notify() {
	if b.stopped.Load() {
		return
	}
	if err := b.async.Send(); err != nil {
		b.e.reg.log.Warn("failed to wake the loop", "channel", b.e.name, "error", err)
	}
}

func (b *bridge) stop() {
	if !b.stopped.CompareAndSwap(false, true) {
		return
	}
	if err := b.async.Close(); err != nil {
		b.e.reg.log.Warn("failed to close async handle", "channel", b.e.name, "error", err)
	}
}

// drain runs on the loop goroutine. It never blocks: it receives
// until the channel is empty, closed, or the bridge is stopped.
func (b *bridge) drain() {
	for !b.stopped.Load() {
		data, err := b.e.queue.ReceiveTimeout(mq.NoWait)
		if err != nil {
			return
		}
		p, err := payload.Unmarshal(data)
		if err != nil {
			b.e.reg.reportError(b.e.name, err)
			continue
		}
		if err = b.call(p); err != nil {
			b.e.reg.reportError(b.e.name, err)
		}
	}
}

func (b *bridge) call(p payload.Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("callback panic: %v", r)
		}
	}()
	return b.cb(p)
}
