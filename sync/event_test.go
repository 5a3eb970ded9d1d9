// Copyright 2016 Aleksandr Demakin. All rights reserved.

package sync

import (
	"sync"
	"testing"
	"time"

	testutil "github.com/nxgtw/go-msgchan/internal/test"

	"github.com/stretchr/testify/assert"
)

func TestEventInitial(t *testing.T) {
	a := assert.New(t)
	ev, err := NewEvent(true)
	if !a.NoError(err) {
		return
	}
	defer func() {
		a.NoError(ev.Close())
	}()
	a.True(ev.WaitTimeout(0))
	a.False(ev.WaitTimeout(0))
}

func TestEventSetWait(t *testing.T) {
	a := assert.New(t)
	ev, err := NewEvent(false)
	if !a.NoError(err) {
		return
	}
	defer func() {
		a.NoError(ev.Close())
	}()
	go func() {
		time.Sleep(time.Millisecond * 50)
		ev.Set()
	}()
	a.True(testutil.WaitForFunc(ev.Wait, time.Second*3))
}

func TestEventCoalesce(t *testing.T) {
	a := assert.New(t)
	ev, err := NewEvent(false)
	if !a.NoError(err) {
		return
	}
	defer func() {
		a.NoError(ev.Close())
	}()
	for i := 0; i < 10; i++ {
		ev.Set()
	}
	a.True(ev.WaitTimeout(0))
	a.False(ev.WaitTimeout(0))
}

func TestEventWaitTimeout(t *testing.T) {
	a := assert.New(t)
	ev, err := NewEvent(false)
	if !a.NoError(err) {
		return
	}
	defer func() {
		a.NoError(ev.Close())
	}()
	now := time.Now()
	a.False(ev.WaitTimeout(time.Millisecond * 50))
	a.True(time.Since(now) >= time.Millisecond*50)
}

func TestEventManySetters(t *testing.T) {
	a := assert.New(t)
	ev, err := NewEvent(false)
	if !a.NoError(err) {
		return
	}
	defer func() {
		a.NoError(ev.Close())
	}()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				ev.Set()
			}
		}()
	}
	wg.Wait()
	a.True(ev.WaitTimeout(time.Second))
	a.False(ev.WaitTimeout(0))
}

func TestEventClosed(t *testing.T) {
	a := assert.New(t)
	ev, err := NewEvent(false)
	if !a.NoError(err) {
		return
	}
	a.NoError(ev.Close())
	a.NoError(ev.Close())
	a.NotPanics(ev.Set)
	a.False(ev.WaitTimeout(time.Millisecond * 10))
	a.True(testutil.WaitForFunc(ev.Wait, time.Second))
}
