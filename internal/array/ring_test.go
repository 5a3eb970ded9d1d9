// Copyright 2016 Aleksandr Demakin. All rights reserved.

package array

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing(t *testing.T) {
	a := assert.New(t)
	r := NewRing[int](0)
	a.Equal(0, r.Len())
	a.Equal(minRingCap, r.Cap())
	a.Panics(func() {
		r.PopFront()
	})
	for i := 0; i < 10; i++ {
		r.PushBack(i)
	}
	a.Equal(10, r.Len())
	a.Equal(2*minRingCap, r.Cap())
	for i := 0; i < 10; i++ {
		a.Equal(i, r.At(i))
	}
	a.Panics(func() {
		r.At(10)
	})
	a.Equal(0, r.PopFront())
	a.Equal(9, r.Len())
	for i := 0; i < 9; i++ {
		a.Equal(i+1, r.At(i))
	}
	v, ok := r.Front()
	a.True(ok)
	a.Equal(1, v)
	for i := 0; i < 9; i++ {
		a.Equal(i+1, r.PopFront())
	}
	a.Equal(0, r.Len())
	_, ok = r.Front()
	a.False(ok)
}

func TestRingWrapAndGrow(t *testing.T) {
	a := assert.New(t)
	r := NewRing[int](minRingCap)
	// move the head forward, so that the data wraps around the buffer end.
	for i := 0; i < 5; i++ {
		r.PushBack(i)
	}
	for i := 0; i < 3; i++ {
		a.Equal(i, r.PopFront())
	}
	for i := 5; i < 3*minRingCap; i++ {
		r.PushBack(i)
	}
	a.Equal(3*minRingCap-3, r.Len())
	for i := 3; i < 3*minRingCap; i++ {
		a.Equal(i, r.PopFront())
	}
}

func TestRingPopAt(t *testing.T) {
	a := assert.New(t)
	r := NewRing[int](minRingCap)
	for i := 0; i < 6; i++ {
		r.PushBack(i)
	}
	a.Equal(1, r.PopAt(1))
	a.Equal(4, r.PopAt(3))
	a.Equal(4, r.Len())
	expected := []int{0, 2, 3, 5}
	for i, v := range expected {
		a.Equal(v, r.At(i))
	}
	a.Equal(2, r.Index(func(v int) bool { return v == 3 }))
	a.Equal(-1, r.Index(func(v int) bool { return v == 42 }))
	a.Panics(func() {
		r.PopAt(4)
	})
	for r.Len() > 0 {
		r.PopAt(r.Len() - 1)
	}
	r.PushBack(7)
	a.Equal(7, r.At(0))
}

func TestRingReset(t *testing.T) {
	a := assert.New(t)
	r := NewRing[string](0)
	r.PushBack("a")
	r.PushBack("b")
	var seen []string
	r.Reset(func(s string) {
		seen = append(seen, s)
	})
	a.Equal([]string{"a", "b"}, seen)
	a.Equal(0, r.Len())
}
