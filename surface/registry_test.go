// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"sync"
	"testing"

	"github.com/gogpu/wsi/internal/dispatch"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	s := New(&dispatch.Instance{})

	h := r.Register(s)
	if h == 0 {
		t.Fatal("Register returned the null handle")
	}
	if got, ok := r.Lookup(h); !ok || got != s {
		t.Fatal("registered surface not found")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}

	if got, ok := r.Unregister(h); !ok || got != s {
		t.Fatal("Unregister did not return the surface")
	}
	if _, ok := r.Lookup(h); ok {
		t.Error("surface still registered")
	}
	if _, ok := r.Unregister(h); ok {
		t.Error("second Unregister succeeded")
	}

	// The freed slot is reused under a new generation.
	h2 := r.Register(New(&dispatch.Instance{}))
	if h2 == h {
		t.Error("stale handle reissued")
	}
	if _, ok := r.Lookup(h); ok {
		t.Error("stale handle resolves to the new surface")
	}
}

func TestRegistryOwned(t *testing.T) {
	r := NewRegistry()
	a, b := &dispatch.Instance{}, &dispatch.Instance{}
	ha1 := r.Register(New(a))
	r.Register(New(b))
	ha2 := r.Register(New(a))

	owned := r.Owned(a)
	if len(owned) != 2 {
		t.Fatalf("Owned = %v, want two handles", owned)
	}
	seen := map[uint64]bool{uint64(owned[0]): true, uint64(owned[1]): true}
	if !seen[uint64(ha1)] || !seen[uint64(ha2)] {
		t.Errorf("Owned = %v, want %d and %d", owned, ha1, ha2)
	}
}

// TestRegistryConcurrent races registration against lookups.
func TestRegistryConcurrent(t *testing.T) {
	r := NewRegistry()
	inst := &dispatch.Instance{}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				h := r.Register(New(inst))
				if _, ok := r.Lookup(h); !ok {
					t.Error("surface not visible after Register")
				}
				r.Unregister(h)
			}
		}()
	}
	wg.Wait()
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}
