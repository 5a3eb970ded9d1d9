// Copyright 2016 Aleksandr Demakin. All rights reserved.

package array

const minRingCap = 8

// Ring is a growable array with O(1) PushBack and PopFront.
// Elements are addressed by their logical position, the head is always at 0.
// It is not safe for concurrent use, callers protect it with their own lock.
type Ring[T any] struct {
	data []T
	head int
	size int
}

// NewRing returns a ring with room for capacity elements before the first growth.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity < minRingCap {
		capacity = minRingCap
	}
	return &Ring[T]{data: make([]T, capacity)}
}

// Len returns current length.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the number of elements the ring can hold without growing.
func (r *Ring[T]) Cap() int {
	return len(r.data)
}

// PushBack adds a new element to the end of the ring.
func (r *Ring[T]) PushBack(v T) {
	if r.size == len(r.data) {
		r.grow()
	}
	r.data[r.logicalIdxToPhys(r.size)] = v
	r.size++
}

// At returns the element at the position i.
func (r *Ring[T]) At(i int) T {
	if i < 0 || i >= r.size {
		panic("index out of range")
	}
	return r.data[r.logicalIdxToPhys(i)]
}

// Front returns the first element and false, if the ring is empty.
func (r *Ring[T]) Front() (T, bool) {
	if r.size == 0 {
		var zero T
		return zero, false
	}
	return r.data[r.head], true
}

// PopFront removes the first element of the ring and returns it.
func (r *Ring[T]) PopFront() T {
	if r.size == 0 {
		panic("index out of range")
	}
	var zero T
	v := r.data[r.head]
	// release the reference, so that the gc can collect popped values.
	r.data[r.head] = zero
	r.forwardHead()
	r.size--
	return v
}

// PopAt removes i'th element of the ring and returns it.
// Elements are shifted from the shorter side.
func (r *Ring[T]) PopAt(idx int) T {
	if idx < 0 || idx >= r.size {
		panic("index out of range")
	}
	var zero T
	v := r.At(idx)
	if idx <= r.size/2 {
		for i := idx; i > 0; i-- {
			r.data[r.logicalIdxToPhys(i)] = r.data[r.logicalIdxToPhys(i-1)]
		}
		r.data[r.head] = zero
		r.forwardHead()
	} else {
		for i := idx; i < r.size-1; i++ {
			r.data[r.logicalIdxToPhys(i)] = r.data[r.logicalIdxToPhys(i+1)]
		}
		r.data[r.logicalIdxToPhys(r.size-1)] = zero
	}
	r.size--
	if r.size == 0 {
		r.head = 0
	}
	return v
}

// Index returns the logical position of the first element for which eq returns true, or -1.
func (r *Ring[T]) Index(eq func(T) bool) int {
	for i := 0; i < r.size; i++ {
		if eq(r.data[r.logicalIdxToPhys(i)]) {
			return i
		}
	}
	return -1
}

// Reset removes all elements, calling fn for each of them in order, if fn is not nil.
func (r *Ring[T]) Reset(fn func(T)) {
	for r.size > 0 {
		v := r.PopFront()
		if fn != nil {
			fn(v)
		}
	}
	r.head = 0
}

func (r *Ring[T]) forwardHead() {
	if r.size == 1 {
		r.head = 0
	} else {
		r.head = (r.head + 1) % len(r.data)
	}
}

func (r *Ring[T]) grow() {
	data := make([]T, 2*len(r.data))
	n := copy(data, r.data[r.head:])
	copy(data[n:], r.data[:r.head])
	r.data = data
	r.head = 0
}

func (r *Ring[T]) logicalIdxToPhys(log int) int {
	return (log + r.head) % len(r.data)
}
