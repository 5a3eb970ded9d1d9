// Copyright 2016 Aleksandr Demakin. All rights reserved.

package mq

import (
	"fmt"
	"time"
)

type waitMode uint8

const (
	modeNoWait waitMode = iota
	modeBounded
	modeForever
)

// Timeout tells a blocking operation how long it may wait.
// The zero value is NoWait.
type Timeout struct {
	mode waitMode
	d    time.Duration
}

var (
	// NoWait makes an operation fail immediately instead of blocking.
	NoWait = Timeout{}
	// Forever makes an operation wait until it can complete.
	Forever = Timeout{mode: modeForever}
)

// After returns a timeout, which waits for not longer, than d.
// d must be positive.
func After(d time.Duration) Timeout {
	return Timeout{mode: modeBounded, d: d}
}

// Millis converts integer milliseconds into a Timeout:
// 0 - no wait, negative - forever, positive - bounded wait.
func Millis(ms int) Timeout {
	switch {
	case ms == 0:
		return NoWait
	case ms < 0:
		return Forever
	default:
		return After(time.Duration(ms) * time.Millisecond)
	}
}

// IsNoWait returns true for NoWait.
func (t Timeout) IsNoWait() bool {
	return t.mode == modeNoWait
}

// IsForever returns true for Forever.
func (t Timeout) IsForever() bool {
	return t.mode == modeForever
}

// Duration returns the bound of a bounded timeout and true,
// or false for NoWait and Forever.
func (t Timeout) Duration() (time.Duration, bool) {
	if t.mode != modeBounded {
		return 0, false
	}
	return t.d, true
}

func (t Timeout) validate() error {
	if t.mode == modeBounded && t.d <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

func (t Timeout) String() string {
	switch t.mode {
	case modeNoWait:
		return "nowait"
	case modeForever:
		return "forever"
	default:
		return fmt.Sprintf("after %v", t.d)
	}
}
