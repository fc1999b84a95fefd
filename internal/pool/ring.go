// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pool implements the bounded FIFO of free swapchain image indices.
package pool

// Ring is a fixed-capacity circular FIFO of image indices. It is not
// synchronized; the swapchain guards it with its own lock.
type Ring struct {
	buf   []uint32
	head  int
	count int
}

// NewRing returns an empty ring holding at most capacity indices.
func NewRing(capacity int) *Ring {
	return &Ring{buf: make([]uint32, capacity)}
}

// NewFullRing returns a ring of the given capacity holding 0..capacity-1.
func NewFullRing(capacity int) *Ring {
	r := NewRing(capacity)
	for i := 0; i < capacity; i++ {
		r.Add(uint32(i))
	}
	return r
}

// Cap returns the capacity.
func (r *Ring) Cap() int { return len(r.buf) }

// Len returns the number of queued indices.
func (r *Ring) Len() int { return r.count }

// Add appends idx. It reports false and leaves the ring unchanged when full.
func (r *Ring) Add(idx uint32) bool {
	if r.count == len(r.buf) {
		return false
	}
	r.buf[(r.head+r.count)%len(r.buf)] = idx
	r.count++
	return true
}

// Remove takes the oldest index. It reports false when empty.
func (r *Ring) Remove() (uint32, bool) {
	if r.count == 0 {
		return 0, false
	}
	idx := r.buf[r.head]
	r.head = (r.head + 1) % len(r.buf)
	r.count--
	return idx, true
}

// Contains reports whether idx is queued.
func (r *Ring) Contains(idx uint32) bool {
	for i := 0; i < r.count; i++ {
		if r.buf[(r.head+i)%len(r.buf)] == idx {
			return true
		}
	}
	return false
}
