// Copyright 2016 Aleksandr Demakin. All rights reserved.

//go:build !linux

package sync

import (
	"sync"
	"time"
)

// event is a one-slot channel. A full slot means the signaled state.
type event struct {
	ch        chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newEvent(initial bool) (*event, error) {
	e := &event{ch: make(chan struct{}, 1), done: make(chan struct{})}
	if initial {
		e.ch <- struct{}{}
	}
	return e, nil
}

func (e *event) set() {
	select {
	case e.ch <- struct{}{}:
	default:
	}
}

func (e *event) waitTimeout(timeout time.Duration) bool {
	if timeout == 0 {
		select {
		case <-e.ch:
			return true
		default:
			return false
		}
	}
	var expired <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		expired = timer.C
	}
	select {
	case <-e.ch:
		return true
	case <-e.done:
		return false
	case <-expired:
		return false
	}
}

func (e *event) close() error {
	e.closeOnce.Do(func() {
		close(e.done)
	})
	return nil
}
