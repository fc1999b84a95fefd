// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package surface implements presentation surfaces for clients that have no
// native window system path to the GPU.
//
// A Surface answers the window-system-integration queries a client makes
// before creating a swapchain: capabilities, formats, present modes and
// present rectangles. Its values are synthesized from the physical device
// and, once a consumer is attached, from that consumer's size.
//
// # Consumers
//
// A surface hands finished frames to a sink.Sink. The sink is optional and
// may be attached or replaced at any time with SetBitmapHook:
//
//	s.SetBitmapHook(sink.NewImageSink(640, 480))
//
// Without a sink the surface reports an undefined current extent
// (0xFFFFFFFF x 0xFFFFFFFF), so the client picks its own size.
//
// # Swapchain identity
//
// A surface remembers the handle of its one live swapchain, not the
// swapchain itself. Replace and Detach are compare-and-swap operations on
// that handle, so a retired swapchain can never knock out its successor.
//
// # Registry
//
// Registry maps client-visible surface handles to surfaces. Handles are
// generation-checked: a handle that outlived its surface resolves to
// nothing, even after the slot is reused.
package surface
