// Copyright 2016 Aleksandr Demakin. All rights reserved.

// Package eventloop implements a single-goroutine cooperative event loop.
// Other goroutines wake it through async handles, which run a function
// on the loop goroutine, or by posting one-shot tasks.
package eventloop

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/nxgtw/go-msgchan"
	ipc_sync "github.com/nxgtw/go-msgchan/sync"

	"github.com/pkg/errors"
)

var (
	// ErrClosed is returned for operations on a closed loop or a closed handle.
	ErrClosed = errors.New("event loop is closed")
	// ErrRunning is returned by Run, if the loop is already running.
	ErrRunning = errors.New("event loop is already running")
)

// this is to ensure, that Loop can drive channel notifications.
var _ msgchan.Loop = (*Loop)(nil)

// Loop is a cooperative event loop.
// Run must be called from one goroutine, all functions are executed on it.
type Loop struct {
	wake    *ipc_sync.Event
	log     *slog.Logger
	running atomic.Bool
	stopped atomic.Bool
	release sync.Once

	// calling is the handle, whose function is running now.
	calling atomic.Pointer[async]

	mu     sync.Mutex
	asyncs []*async
	tasks  []func()
	closed bool
}

// Option configures a Loop.
type Option func(l *Loop)

// WithLogger sets the logger for recovered panics. The default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(l *Loop) {
		if log != nil {
			l.log = log
		}
	}
}

// New returns a new loop, which is not running.
func New(opts ...Option) (*Loop, error) {
	ev, err := ipc_sync.NewEvent(false)
	if err != nil {
		return nil, errors.Wrap(err, "event loop: failed to create wakeup event")
	}
	l := &Loop{wake: ev, log: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// NewAsync registers fn to be run on the loop each time the handle is triggered.
func (l *Loop) NewAsync(fn func()) (msgchan.Async, error) {
	if fn == nil {
		return nil, errors.New("event loop: nil async function")
	}
	a := &async{loop: l, fn: fn}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, ErrClosed
	}
	l.asyncs = append(l.asyncs, a)
	return a, nil
}

// Post schedules fn to be run once on the loop.
func (l *Loop) Post(fn func()) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.wake.Set()
	return nil
}

// Run processes wakeups until Stop is called or ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer func() {
		l.running.Store(false)
		if l.isClosed() {
			l.closeEvent()
		}
	}()
	stopWatch := context.AfterFunc(ctx, l.Stop)
	defer stopWatch()
	for {
		if l.isClosed() {
			return ErrClosed
		}
		if l.stopped.Swap(false) || ctx.Err() != nil {
			return nil
		}
		l.wake.Wait()
		l.runOnce()
	}
}

// Stop makes the running Run return after the current iteration.
// If the loop is not running, the next Run returns right away.
func (l *Loop) Stop() {
	l.stopped.Store(true)
	l.wake.Set()
}

// Close stops the loop and closes all async handles.
// Tasks, which have not been run yet, are dropped.
func (l *Loop) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	asyncs := l.asyncs
	l.asyncs = nil
	l.tasks = nil
	l.mu.Unlock()
	for _, a := range asyncs {
		a.closed.Store(true)
		a.wait()
	}
	l.Stop()
	if l.running.Load() {
		// the running loop closes the event on exit.
		return nil
	}
	return l.closeEvent()
}

func (l *Loop) closeEvent() (err error) {
	l.release.Do(func() {
		err = l.wake.Close()
	})
	return err
}

// Handles returns the number of open async handles.
func (l *Loop) Handles() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.asyncs)
}

func (l *Loop) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

func (l *Loop) runOnce() {
	l.mu.Lock()
	asyncs := append([]*async(nil), l.asyncs...)
	tasks := l.tasks
	l.tasks = nil
	l.mu.Unlock()
	for _, a := range asyncs {
		if a.pending.CompareAndSwap(true, false) {
			l.runAsync(a)
		}
	}
	for _, task := range tasks {
		l.safeCall(task)
	}
}

func (l *Loop) runAsync(a *async) {
	a.run.Lock()
	defer a.run.Unlock()
	if a.closed.Load() {
		return
	}
	l.calling.Store(a)
	defer l.calling.Store(nil)
	l.safeCall(a.fn)
}

// safeCall runs fn and recovers from its panic, so one handler can't stop the loop.
func (l *Loop) safeCall(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Error("event loop handler panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}

func (l *Loop) removeAsync(a *async) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, other := range l.asyncs {
		if other == a {
			l.asyncs = append(l.asyncs[:i], l.asyncs[i+1:]...)
			return
		}
	}
}

// async is a wakeup handle. Sends made while it is pending are coalesced.
type async struct {
	loop    *Loop
	fn      func()
	pending atomic.Bool
	closed  atomic.Bool
	// run is held by the loop from the closed check until fn returns.
	run sync.Mutex
}

func (a *async) Send() error {
	if a.closed.Load() {
		return ErrClosed
	}
	if a.pending.CompareAndSwap(false, true) {
		a.loop.wake.Set()
	}
	return nil
}

func (a *async) Close() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}
	a.loop.removeAsync(a)
	a.wait()
	return nil
}

// wait blocks while the loop is starting fn. It returns right away
// if fn is already running, so fn may close its own handle.
func (a *async) wait() {
	if a.loop.calling.Load() == a {
		return
	}
	a.run.Lock()
	a.run.Unlock()
}
