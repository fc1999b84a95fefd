// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"github.com/gogpu/wsi/internal/dispatch"
	"github.com/gogpu/wsi/internal/handle"
	"github.com/gogpu/wsi/internal/logger"
	"github.com/gogpu/wsi/vk"
)

// Registry maps surface handles to surfaces.
//
// Each layer owns one registry; there is no global instance.
//
//	surfaces := surface.NewRegistry()
//	h := surfaces.Register(surface.New(inst))
//	s, ok := surfaces.Lookup(h)
type Registry struct {
	table *handle.Table[*Surface]
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{table: handle.NewTable[*Surface]()}
}

// Register publishes s and returns its handle.
func (r *Registry) Register(s *Surface) vk.SurfaceKHR {
	h := vk.SurfaceKHR(r.table.Insert(s))
	logger.L().Debug("surface: created", "surface", uint64(h))
	return h
}

// Lookup returns the surface for h.
func (r *Registry) Lookup(h vk.SurfaceKHR) (*Surface, bool) {
	return r.table.Get(uint64(h))
}

// Unregister removes h and returns the surface it referred to. Unknown and
// stale handles report false.
func (r *Registry) Unregister(h vk.SurfaceKHR) (*Surface, bool) {
	s, ok := r.table.Remove(uint64(h))
	if ok {
		logger.L().Debug("surface: destroyed", "surface", uint64(h))
	}
	return s, ok
}

// Owned returns the handles of the surfaces owned by inst.
func (r *Registry) Owned(inst *dispatch.Instance) []vk.SurfaceKHR {
	var owned []vk.SurfaceKHR
	r.table.Each(func(h uint64, s *Surface) {
		if s.instance == inst {
			owned = append(owned, vk.SurfaceKHR(h))
		}
	})
	return owned
}

// Len returns the number of registered surfaces.
func (r *Registry) Len() int {
	return r.table.Len()
}
