// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package vk defines the Vulkan-shaped value types shared by the layer, the
// swapchain engine and every driver link below it.
//
// Nothing in this package talks to a GPU. It describes handles, result codes,
// create infos, the typed extension chain used for layer negotiation, and the
// function types each entry point has. A driver link publishes its entry
// points as values of these function types through a [GetInstanceProcAddrFunc]
// or [GetDeviceProcAddrFunc]; whoever sits above resolves them by name.
//
// # Two-call enumeration
//
// Enumerating entry points follow the standard convention: a nil output slice
// writes the available count, a non-nil slice receives min(capacity, available)
// entries and the call reports [Incomplete] when the caller's capacity was
// smaller than the available set. [Enumerate] implements it once for all.
package vk
