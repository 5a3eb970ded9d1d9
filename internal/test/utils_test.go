// Copyright 2016 Aleksandr Demakin. All rights reserved.

package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaitForFunc(t *testing.T) {
	a := assert.New(t)
	a.True(WaitForFunc(func() {}, time.Second))
	block := make(chan struct{})
	defer close(block)
	a.False(WaitForFunc(func() { <-block }, time.Millisecond*20))
}

func TestWaitForChan(t *testing.T) {
	a := assert.New(t)
	ch := make(chan int, 1)
	_, ok := WaitForChan(ch, time.Millisecond*10)
	a.False(ok)
	ch <- 42
	v, ok := WaitForChan(ch, time.Second)
	a.True(ok)
	a.Equal(42, v)
}

func TestWaitForCondition(t *testing.T) {
	a := assert.New(t)
	start := time.Now()
	a.True(WaitForCondition(func() bool { return time.Since(start) > time.Millisecond*10 }, time.Second))
	a.False(WaitForCondition(func() bool { return false }, time.Millisecond*10))
	a.True(Elapsed(func() { time.Sleep(time.Millisecond * 5) }) >= time.Millisecond*5)
}
