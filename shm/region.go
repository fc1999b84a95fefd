// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shm provides named shared memory regions.
//
// A Region is a page-aligned byte range that a second mapping, in this
// process or another one that received the file descriptor, can see without a
// copy. On Linux regions are anonymous memfd files mapped MAP_SHARED; on other
// systems they fall back to process-private heap memory and report FD -1.
package shm

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

var (
	// ErrInvalidSize is returned when a region of zero or negative size is
	// requested.
	ErrInvalidSize = errors.New("shm: invalid region size")

	// ErrClosed is returned by operations on a closed region.
	ErrClosed = errors.New("shm: region closed")
)

// Region is a mapped shared memory region. A Region is safe for concurrent use;
// the bytes themselves are not synchronized.
type Region struct {
	name string
	size int

	mu     sync.Mutex
	fd     int
	data   []byte
	closed bool
}

// PageSize is the allocation granularity of regions.
var PageSize = os.Getpagesize()

// RoundUp rounds n up to a whole number of pages.
func RoundUp(n int) int {
	return (n + PageSize - 1) / PageSize * PageSize
}

// New creates a region of at least size bytes, rounded up to PageSize.
func New(name string, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	size = RoundUp(size)
	fd, data, err := create(name, size)
	if err != nil {
		return nil, fmt.Errorf("shm: create %q: %w", name, err)
	}
	return &Region{name: name, size: size, fd: fd, data: data}, nil
}

// Name returns the name the region was created with.
func (r *Region) Name() string { return r.name }

// Size returns the mapped size in bytes.
func (r *Region) Size() int { return r.size }

// FD returns the file descriptor backing the region, or -1 when it has none.
func (r *Region) FD() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return -1
	}
	return r.fd
}

// Bytes returns the mapping. The slice is invalid after Close.
func (r *Region) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data
}

// Clone maps the same memory a second time. Writes through either region are
// visible through the other. The clone must be closed independently.
func (r *Region) Clone() (*Region, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	fd, data, err := clone(r.fd, r.data)
	if err != nil {
		return nil, fmt.Errorf("shm: clone %q: %w", r.name, err)
	}
	return &Region{name: r.name, size: r.size, fd: fd, data: data}, nil
}

// Close unmaps the region and closes its descriptor. Close is idempotent.
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	err := release(r.fd, r.data)
	r.fd = -1
	r.data = nil
	return err
}
