// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package handle maps opaque 64-bit handles to layer-owned objects.
//
// A handle packs a slot index (low 32 bits, offset by one so that zero is
// never valid) with the slot's generation (high 32 bits). Removing an object
// bumps the generation, so a stale handle held by a client resolves to
// nothing instead of to whatever object reuses the slot.
package handle

import "sync"

type slot[T any] struct {
	gen   uint32
	live  bool
	value T
}

// Table is a generation-checked handle table. It is safe for concurrent use.
type Table[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
}

// NewTable returns an empty table.
func NewTable[T any]() *Table[T] {
	return &Table[T]{}
}

func pack(index, gen uint32) uint64 {
	return uint64(gen)<<32 | uint64(index+1)
}

func unpack(h uint64) (index, gen uint32, ok bool) {
	lo := uint32(h)
	if lo == 0 {
		return 0, 0, false
	}
	return lo - 1, uint32(h >> 32), true
}

// Insert stores v and returns its handle, which is never zero.
func (t *Table[T]) Insert(v T) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{gen: 1})
	}
	s := &t.slots[index]
	s.live = true
	s.value = v
	return pack(index, s.gen)
}

// Get returns the object for h.
func (t *Table[T]) Get(h uint64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var zero T
	index, gen, ok := unpack(h)
	if !ok || int(index) >= len(t.slots) {
		return zero, false
	}
	s := t.slots[index]
	if !s.live || s.gen != gen {
		return zero, false
	}
	return s.value, true
}

// Remove drops h and returns the object it referred to. Later lookups of h
// fail even after the slot is reused.
func (t *Table[T]) Remove(h uint64) (T, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var zero T
	index, gen, ok := unpack(h)
	if !ok || int(index) >= len(t.slots) {
		return zero, false
	}
	s := &t.slots[index]
	if !s.live || s.gen != gen {
		return zero, false
	}
	v := s.value
	s.value = zero
	s.live = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, index)
	return v, true
}

// Len returns the number of live objects.
func (t *Table[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots) - len(t.free)
}

// Each calls fn for every live object under the read lock. fn must not
// modify the table.
func (t *Table[T]) Each(fn func(h uint64, v T)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for i, s := range t.slots {
		if s.live {
			fn(pack(uint32(i), s.gen), s.value)
		}
	}
}
