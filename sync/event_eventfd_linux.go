// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build linux

package sync

import (
	"encoding/binary"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// event is an eventfd object. Writes add to its counter, a read returns
// the counter and resets it, so any number of writes is consumed by one wait.
type event struct {
	fd     int
	mu     sync.RWMutex
	closed bool
}

func newEvent(initial bool) (*event, error) {
	var initval uint
	if initial {
		initval = 1
	}
	fd, err := unix.Eventfd(initval, unix.EFD_CLOEXEC|unix.EFD_NONBLOCK)
	if err != nil {
		return nil, errors.Wrap(os.NewSyscallError("eventfd", err), "failed to create an event")
	}
	return &event{fd: fd}, nil
}

func (e *event) set() {
	var buf [8]byte
	binary.NativeEndian.PutUint64(buf[:], 1)
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return
	}
	for {
		// EAGAIN means the counter is saturated, i.e. the event is already set.
		if _, err := unix.Write(e.fd, buf[:]); err != unix.EINTR {
			return
		}
	}
}

// tryWait consumes the signaled state, if the event is set.
func (e *event) tryWait() (ok bool, closed bool) {
	var buf [8]byte
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return false, true
	}
	for {
		n, err := unix.Read(e.fd, buf[:])
		if err == unix.EINTR {
			continue
		}
		return err == nil && n == len(buf), false
	}
}

func (e *event) waitTimeout(timeout time.Duration) bool {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		ok, closed := e.tryWait()
		if ok {
			return true
		}
		if closed || timeout == 0 {
			return false
		}
		ms := -1
		if timeout > 0 {
			left := time.Until(deadline)
			if left <= 0 {
				return false
			}
			ms = int((left + time.Millisecond - 1) / time.Millisecond)
		}
		// several goroutines may wake up here, but only one of them will read the counter.
		fds := []unix.PollFd{{Fd: int32(e.fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(fds, ms); err != nil && err != unix.EINTR {
			return false
		}
	}
}

func (e *event) close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	if err := unix.Close(e.fd); err != nil {
		return errors.Wrap(os.NewSyscallError("close", err), "failed to close an event")
	}
	return nil
}
