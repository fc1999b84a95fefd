// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package shm

import (
	"errors"
	"runtime"
	"testing"
)

func TestNewRoundsToPage(t *testing.T) {
	r, err := New("test-round", 10)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	if r.Size() != PageSize {
		t.Errorf("Size() = %d, want %d", r.Size(), PageSize)
	}
	if len(r.Bytes()) != r.Size() {
		t.Errorf("len(Bytes()) = %d, want %d", len(r.Bytes()), r.Size())
	}
	if r.Name() != "test-round" {
		t.Errorf("Name() = %q", r.Name())
	}
	if runtime.GOOS == "linux" && r.FD() < 0 {
		t.Error("linux region should have a descriptor")
	}
}

func TestNewInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New("bad", size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d) error = %v, want ErrInvalidSize", size, err)
		}
	}
}

// TestCloneSharesMemory writes through one mapping and reads through the other.
func TestCloneSharesMemory(t *testing.T) {
	r, err := New("test-clone", 4096)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()

	c, err := r.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	defer c.Close()

	r.Bytes()[0] = 0xAB
	r.Bytes()[r.Size()-1] = 0xCD
	if c.Bytes()[0] != 0xAB || c.Bytes()[c.Size()-1] != 0xCD {
		t.Error("clone should observe writes to the original")
	}

	c.Bytes()[1] = 0x42
	if r.Bytes()[1] != 0x42 {
		t.Error("original should observe writes to the clone")
	}
}

func TestCloseIdempotent(t *testing.T) {
	r, err := New("test-close", 1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if r.FD() != -1 {
		t.Errorf("FD() after Close = %d, want -1", r.FD())
	}
	if r.Bytes() != nil {
		t.Error("Bytes() after Close should be nil")
	}
	if _, err := r.Clone(); !errors.Is(err, ErrClosed) {
		t.Errorf("Clone after Close error = %v, want ErrClosed", err)
	}
}

func TestCloneOutlivesOriginal(t *testing.T) {
	r, err := New("test-outlive", 64)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	r.Bytes()[3] = 7
	c, err := r.Clone()
	if err != nil {
		t.Fatalf("Clone: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	defer c.Close()
	if c.Bytes()[3] != 7 {
		t.Error("clone should keep the memory alive after the original closes")
	}
}
